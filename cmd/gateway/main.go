// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/AleutianGateway/pkg/logging"
	"github.com/AleutianAI/AleutianGateway/services/agent"
	"github.com/AleutianAI/AleutianGateway/services/gateway/auth"
	"github.com/AleutianAI/AleutianGateway/services/gateway/conversation"
	"github.com/AleutianAI/AleutianGateway/services/gateway/observability"
	"github.com/AleutianAI/AleutianGateway/services/gateway/routes"
	"github.com/AleutianAI/AleutianGateway/services/gateway/services"
	"github.com/AleutianAI/AleutianGateway/services/gateway/store"
	"github.com/AleutianAI/AleutianGateway/services/llm"
	"github.com/AleutianAI/AleutianGateway/services/retrieval"
)

// initTracer wires the OTLP trace exporter. Tracing is optional: without
// OTEL_EXPORTER_OTLP_ENDPOINT the gateway runs with the default no-op
// tracer provider.
func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		slog.Warn("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return func(context.Context) {}, nil
	}

	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("gateway-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newRetriever connects to Weaviate when WEAVIATE_SERVICE_URL is set and
// valid; otherwise the gateway runs in lightweight mode with no knowledge
// base (the agent still answers, ungrounded).
func newRetriever() retrieval.Retriever {
	weaviateURL := strings.Trim(os.Getenv("WEAVIATE_SERVICE_URL"), "\"' ")

	if weaviateURL == "" || !strings.Contains(weaviateURL, "http") {
		slog.Info("WEAVIATE_SERVICE_URL not set or empty. Running in lightweight mode (no retrieval).")
		return retrieval.NopRetriever{}
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Warn("WEAVIATE_SERVICE_URL is invalid. Running in lightweight mode.",
			"url", weaviateURL, "error", err)
		return retrieval.NopRetriever{}
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Error("Failed to create Weaviate client, running in lightweight mode", "error", err)
		return retrieval.NopRetriever{}
	}

	class := os.Getenv("RETRIEVAL_CLASS")
	limit := 0
	if v := os.Getenv("RETRIEVAL_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		} else {
			slog.Warn("RETRIEVAL_LIMIT is not a number, using default", "value", v)
		}
	}
	return retrieval.NewWeaviateRetriever(client, class, limit)
}

func main() {
	port := os.Getenv("GATEWAY_PORT")
	if port == "" {
		port = "8000"
	}

	logging.Setup("gateway-service")

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	registry := auth.NewKeyRegistryFromEnv()
	retriever := newRetriever()

	log.Println("Configuring the LLM Client")
	var llmClient llm.LLMClient
	switch backend := os.Getenv("LLM_BACKEND_TYPE"); backend {
	case "ollama":
		llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama LLM backend")
	case "openai":
		llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	default:
		slog.Warn("LLM_BACKEND_TYPE not set or invalid, defaulting to openai", "value", backend)
		llmClient, err = llm.NewOpenAIClient()
	}
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	userTurnsOnly := os.Getenv("REPLAY_USER_TURNS_ONLY") == "true"
	if userTurnsOnly {
		slog.Warn("Replaying only prior user turns into the agent (legacy mode)")
	}

	metrics := observability.InitMetrics()
	runner := agent.NewRetrievalAgent(llmClient, retriever,
		os.Getenv("SYSTEM_ROLE_PROMPT_PERSONA"), llm.GenerationParams{})
	svc := services.NewGatewayService(store.NewStore(), runner,
		conversation.NewReplayer(userTurnsOnly), metrics)

	router := gin.Default()
	router.Use(otelgin.Middleware("gateway-service"))
	router.Use(metrics.RequestMiddleware())

	routes.SetupRoutes(router, registry, svc)

	log.Println("Starting the gateway server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var retrievalTracer = otel.Tracer("aleutian.retrieval.weaviate")

// WeaviateRetriever performs nearText similarity search against one
// Weaviate class. The class is expected to carry "content" and "source"
// text properties, as written by the index-build pipeline.
type WeaviateRetriever struct {
	client *weaviate.Client
	class  string
	limit  int
}

// NewWeaviateRetriever creates a retriever over the given class. A
// non-positive limit falls back to DefaultLimit.
func NewWeaviateRetriever(client *weaviate.Client, class string, limit int) *WeaviateRetriever {
	if class == "" {
		class = "Document"
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &WeaviateRetriever{client: client, class: class, limit: limit}
}

// Search implements the Retriever interface.
func (r *WeaviateRetriever) Search(ctx context.Context, query string) ([]Document, error) {
	ctx, span := retrievalTracer.Start(ctx, "WeaviateRetriever.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("retrieval.class", r.class),
		attribute.Int("retrieval.limit", r.limit),
	)

	nearText := r.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	result, err := r.client.GraphQL().Get().
		WithClassName(r.class).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(r.limit).
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Weaviate similarity search failed", "class", r.class, "error", err)
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		err := fmt.Errorf("similarity search error: %s", result.Errors[0].Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	docs := parseDocuments(result, r.class)
	span.SetAttributes(attribute.Int("retrieval.documents", len(docs)))
	slog.Debug("Retrieved documents", "class", r.class, "count", len(docs))
	return docs, nil
}

// parseDocuments unpacks the GraphQL Get response into ranked documents.
// Malformed objects are skipped rather than failing the whole search.
func parseDocuments(result *models.GraphQLResponse, class string) []Document {
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, ok := data[class].([]interface{})
	if !ok {
		return nil
	}

	docs := make([]Document, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		doc := Document{}
		if content, ok := m["content"].(string); ok {
			doc.Content = content
		}
		if source, ok := m["source"].(string); ok {
			doc.Source = source
		}
		if additional, ok := m["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				doc.Certainty = certainty
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

var _ Retriever = (*WeaviateRetriever)(nil)

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package retrieval is the agent's knowledge-base lookup capability:
// semantic similarity search over an indexed document collection. The
// gateway core never calls it directly; it is handed to the agent, which
// grounds replies in the retrieved excerpts.
package retrieval

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLimit is how many document excerpts a search returns when the
// caller does not override it.
const DefaultLimit = 7

// Document is one ranked excerpt from the knowledge base.
type Document struct {
	Content   string
	Source    string
	Certainty float64
}

// Retriever retrieves the documents whose embeddings are closest to the
// query. Results are ranked, best match first.
//
// Implementations must be safe for concurrent use.
type Retriever interface {
	Search(ctx context.Context, query string) ([]Document, error)
}

// FormatDocuments renders ranked excerpts as a single text block suitable
// for inclusion in an LLM prompt.
func FormatDocuments(docs []Document) string {
	var b strings.Builder
	b.WriteString("\nRetrieved documents:\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "===== Document %d =====\n%s", i, doc.Content)
	}
	return b.String()
}

// NopRetriever always returns zero documents. It backs the gateway's
// lightweight mode, used when no vector database is configured: the agent
// still answers, just without knowledge-base grounding.
type NopRetriever struct{}

// Search returns no documents and no error.
func (NopRetriever) Search(ctx context.Context, query string) ([]Document, error) {
	return nil, nil
}

var _ Retriever = NopRetriever{}

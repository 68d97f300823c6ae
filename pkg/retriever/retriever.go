// Package retriever answers similarity queries over the persisted index.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/embeddings"
	"github.com/studykit/studykit/pkg/vector"
)

// DefaultTopK is the default number of hits returned per query.
const DefaultTopK = 4

// Result is one retrieved chunk with its similarity score.
type Result struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float32 `json:"score"`
}

// Retriever embeds queries and searches the persisted index.
type Retriever struct {
	embedder embeddings.Embedder
	indexDir string
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the index stored in indexDir.
func NewRetriever(embedder embeddings.Embedder, indexDir string, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		indexDir: indexDir,
		logger:   logger,
	}
}

// Search embeds the query and returns up to topK results in descending
// score order. The index is re-read from disk on every call so a fresh
// ingest is visible without restarting the process.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	index, metadata, err := vector.Load(r.indexDir)
	if err != nil {
		return nil, err
	}

	rows, err := r.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("encode query: expected 1 vector, got %d", len(rows))
	}

	hits, err := index.Search(rows[0], topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		if hit.Offset < 0 || hit.Offset >= len(metadata) {
			r.logger.Warn("dropping hit with no metadata row",
				zap.Int("offset", hit.Offset),
				zap.Int("metadata_rows", len(metadata)))
			continue
		}
		meta := metadata[hit.Offset]
		results = append(results, Result{
			ID:     meta.ID,
			Text:   meta.Text,
			Source: meta.Source,
			Score:  hit.Score,
		})
	}

	return results, nil
}

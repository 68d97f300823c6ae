// Package ingest builds the vector index from a directory of course
// documents.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/chunker"
	"github.com/studykit/studykit/pkg/embeddings"
	"github.com/studykit/studykit/pkg/extract"
	"github.com/studykit/studykit/pkg/vector"
)

// ErrNoDocuments means no extractable text was found under the data dir.
var ErrNoDocuments = errors.New("no extractable documents found")

// Options control a single ingest pass. A non-positive ChunkSize falls back
// to the chunker default; ChunkOverlap falls back only when negative, so an
// explicit zero overlap is honored.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// Ingester runs the extract-chunk-encode-persist pipeline.
type Ingester struct {
	embedder embeddings.Embedder
	indexDir string
	logger   *zap.Logger
}

// NewIngester creates an ingester that persists into indexDir.
func NewIngester(embedder embeddings.Embedder, indexDir string, logger *zap.Logger) *Ingester {
	return &Ingester{
		embedder: embedder,
		indexDir: indexDir,
		logger:   logger,
	}
}

// Ingest extracts every supported document under dataDir, chunks and embeds
// the text, and atomically replaces the persisted index. It returns the
// number of chunks indexed. The previous index stays intact on any failure.
func (i *Ingester) Ingest(ctx context.Context, dataDir string, opts Options) (int, error) {
	size := opts.ChunkSize
	if size <= 0 {
		size = chunker.DefaultChunkSize
	}
	overlap := opts.ChunkOverlap
	if overlap < 0 {
		overlap = chunker.DefaultChunkOverlap
	}

	docs, _, err := extract.FromDir(dataDir, i.logger)
	if err != nil {
		return 0, fmt.Errorf("extract documents: %w", err)
	}

	var chunks []chunker.Chunk
	for _, doc := range docs {
		chunks = append(chunks, chunker.ChunkDocument(doc.Name, doc.Text, size, overlap)...)
	}
	if len(chunks) == 0 {
		return 0, ErrNoDocuments
	}

	i.logger.Info("encoding chunks",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)))

	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.Text
	}

	rows, err := i.embedder.Encode(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("encode chunks: %w", err)
	}
	if len(rows) != len(chunks) {
		return 0, fmt.Errorf("encode chunks: expected %d vectors, got %d", len(chunks), len(rows))
	}

	index, err := vector.New(i.embedder.Dimensions())
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}
	if err := index.Add(rows); err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	metadata := make([]vector.ChunkMeta, len(chunks))
	for n, c := range chunks {
		metadata[n] = vector.ChunkMeta{
			ID:     c.ID,
			Text:   c.Text,
			Source: c.Source,
		}
	}

	if err := vector.Save(i.indexDir, index, metadata); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}

	i.logger.Info("index persisted",
		zap.String("index_dir", i.indexDir),
		zap.Int("chunks", len(chunks)))

	return len(chunks), nil
}

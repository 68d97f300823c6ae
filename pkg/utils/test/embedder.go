package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	Dim        int
	Embeddings map[string][]float32

	// FailOn causes Encode to return an error when any input text matches
	FailOn string

	// Requests records every batch passed to Encode
	Requests [][]string
}

func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{
		Dim:        dim,
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	m.Requests = append(m.Requests, texts)

	rows := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if m.FailOn != "" && text == m.FailOn {
			return nil, fmt.Errorf("mock embedding failure for: %s", text)
		}

		if emb, ok := m.Embeddings[text]; ok {
			rows = append(rows, emb)
			continue
		}

		// Default embedding for any unregistered text
		row := make([]float32, m.Dim)
		row[0] = 1
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *MockEmbedder) Dimensions() int {
	return m.Dim
}

func (m *MockEmbedder) Close() error {
	return nil
}

// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"os"
	"sync"

	"github.com/studykit/studykit/pkg/embeddings"
	"github.com/studykit/studykit/pkg/embeddings/ollama"
	"github.com/studykit/studykit/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	Dimensions   int
	APIKey       string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:    o.TargetURL,
			Model:      o.Model,
			Dimensions: o.Dimensions,
		})
	case "openai":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:     apiKey,
			BaseURL:    o.TargetURL,
			Model:      o.Model,
			Dimensions: o.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}

var (
	sharedOnce sync.Once
	sharedEmb  embeddings.Embedder
	sharedErr  error
)

// SharedEmbedder returns the process-wide embedder, constructing it on first
// use. The sync.Once guard guarantees exactly one backend instance is ever
// built even when concurrent callers race on first access; the options of
// the first caller win. Changing the embedding model requires a process
// restart and a full index rebuild.
func SharedEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	sharedOnce.Do(func() {
		sharedEmb, sharedErr = NewEmbedder(o)
	})
	return sharedEmb, sharedErr
}

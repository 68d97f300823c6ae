// Package llmutils is the llm utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/studykit/studykit/pkg/llm"
	"github.com/studykit/studykit/pkg/llm/ollama"
	"github.com/studykit/studykit/pkg/llm/openai"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewCompleter(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewCompleter(openai.Config{
			APIKey:  apiKey,
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}

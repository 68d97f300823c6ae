// Package generate turns retrieved contexts into answers, summaries, and
// quizzes via the configured completion backend.
package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/llm"
	"github.com/studykit/studykit/pkg/retriever"
)

const (
	// DefaultSummaryLength is the target summary length in words.
	DefaultSummaryLength = 500

	answerTemperature    = 0.2
	summarizeTemperature = 0.3
)

// Generator produces grounded text from retrieved contexts.
type Generator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewGenerator creates a generator over the given completion backend.
func NewGenerator(completer llm.Completer, logger *zap.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logger,
	}
}

// Answer answers a question using only the supplied contexts.
func (g *Generator) Answer(ctx context.Context, question string, contexts []retriever.Result) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if len(contexts) == 0 {
		return "", ErrEmptyContexts
	}

	blocks := make([]string, 0, len(contexts))
	for _, c := range contexts {
		source := c.Source
		if source == "" {
			source = "unknown"
		}
		blocks = append(blocks, fmt.Sprintf("[Source: %s] %s", source, c.Text))
	}

	prompt := fmt.Sprintf(
		"You are a helpful study assistant. Use only the context to answer. "+
			"If the answer is not in the context, say you do not know.\n\n"+
			"Context:\n%s\n\nQuestion: %s\nAnswer:",
		strings.Join(blocks, "\n\n"), question)

	text, err := g.completer.Complete(ctx, llm.CompleteRequest{
		System:      "You are a concise study assistant.",
		Prompt:      prompt,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

// Summarize condenses the supplied contexts into roughly maxLength words.
func (g *Generator) Summarize(ctx context.Context, contexts []retriever.Result, maxLength int) (string, error) {
	if len(contexts) == 0 {
		return "", ErrEmptyContexts
	}
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}

	texts := make([]string, 0, len(contexts))
	for _, c := range contexts {
		texts = append(texts, c.Text)
	}

	prompt := fmt.Sprintf(
		"Please provide a comprehensive summary of the following document(s). "+
			"Focus on key points, main ideas, and important details. "+
			"Keep the summary concise but informative (approximately %d words).\n\n"+
			"Document content:\n%s\n\nSummary:",
		maxLength, strings.Join(texts, "\n\n"))

	text, err := g.completer.Complete(ctx, llm.CompleteRequest{
		System:      "You are an expert at summarizing educational content. Provide clear, concise summaries.",
		Prompt:      prompt,
		Temperature: summarizeTemperature,
		MaxTokens:   maxLength * 2,
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

// Package assistant is the public surface the CLI and API build on. It
// wires the configured embedding and completion backends to the retrieval
// and generation pipeline.
package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/embeddings"
	embeddingutils "github.com/studykit/studykit/pkg/embeddings/utils"
	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/ingest"
	"github.com/studykit/studykit/pkg/llm"
	llmutils "github.com/studykit/studykit/pkg/llm/utils"
	"github.com/studykit/studykit/pkg/retriever"
)

// Assistant bundles the ingest, retrieval, and generation pipeline behind
// one facade.
type Assistant struct {
	cfg       *config.Config
	logger    *zap.Logger
	embedder  embeddings.Embedder
	completer llm.Completer
	ingester  *ingest.Ingester
	retriever *retriever.Retriever
	generator *generate.Generator
}

// New builds an assistant from configuration. The embedder is the shared
// process-wide instance so repeated construction reuses the same backend.
func New(cfg *config.Config, logger *zap.Logger) (*Assistant, error) {
	embedder, err := embeddingutils.SharedEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		Dimensions:   cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create completer: %w", err)
	}

	return &Assistant{
		cfg:       cfg,
		logger:    logger,
		embedder:  embedder,
		completer: completer,
		ingester:  ingest.NewIngester(embedder, cfg.Storage.IndexDir, logger),
		retriever: retriever.NewRetriever(embedder, cfg.Storage.IndexDir, logger),
		generator: generate.NewGenerator(completer, logger),
	}, nil
}

// Ingest rebuilds the index from the documents under dir. An empty dir
// falls back to the configured data dir.
func (a *Assistant) Ingest(ctx context.Context, dir string) (int, error) {
	if dir == "" {
		dir = a.cfg.Storage.DataDir
	}
	return a.ingester.Ingest(ctx, dir, ingest.Options{
		ChunkSize:    a.cfg.Retrieval.ChunkSize,
		ChunkOverlap: a.cfg.Retrieval.ChunkOverlap,
	})
}

// Search returns the topK most similar chunks for the query.
func (a *Assistant) Search(ctx context.Context, query string, topK int) ([]retriever.Result, error) {
	return a.retriever.Search(ctx, query, a.topK(topK))
}

// Answer retrieves contexts for the question and generates a grounded
// answer from them.
func (a *Assistant) Answer(ctx context.Context, question string, topK int) (string, []retriever.Result, error) {
	results, err := a.retriever.Search(ctx, question, a.topK(topK))
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, generate.ErrEmptyContexts
	}

	answer, err := a.generator.Answer(ctx, question, results)
	if err != nil {
		return "", nil, err
	}

	return answer, results, nil
}

// Summarize retrieves contexts for the query and condenses them. It returns
// the summary together with the chunks it was built from.
func (a *Assistant) Summarize(ctx context.Context, query string, maxLength int) (string, []retriever.Result, error) {
	results, err := a.retriever.Search(ctx, query, summaryTopK)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, generate.ErrEmptyContexts
	}

	summary, err := a.generator.Summarize(ctx, results, maxLength)
	if err != nil {
		return "", nil, err
	}

	return summary, results, nil
}

// GenerateQuiz retrieves contexts for the query and builds a quiz from
// them. A topic-focused search that comes back sparse is widened with a
// general pass over the whole corpus so the quiz still has enough material.
func (a *Assistant) GenerateQuiz(ctx context.Context, query string, numQuestions int, difficulty, topic string) (*generate.Quiz, []retriever.Result, error) {
	results, err := a.retriever.Search(ctx, query, quizTopK)
	if err != nil {
		return nil, nil, err
	}

	if topic != "" && len(results) < quizMinContexts {
		general, err := a.retriever.Search(ctx, generalProbeQuery, quizSupplementTopK)
		if err != nil {
			return nil, nil, err
		}
		results = mergeQuizContexts(results, general)
	}

	if len(results) == 0 {
		return nil, nil, generate.ErrEmptyContexts
	}

	quiz, err := a.generator.Quiz(ctx, results, numQuestions, difficulty, topic)
	if err != nil {
		return nil, nil, err
	}

	return quiz, results, nil
}

// Close releases the backends.
func (a *Assistant) Close() error {
	if err := a.completer.Close(); err != nil {
		return err
	}
	return a.embedder.Close()
}

// Context budgets for the derived operations. Summaries and quizzes read
// more of the corpus than a pointed question does.
const (
	summaryTopK        = 10
	quizTopK           = 20
	quizSupplementTopK = 10
	quizMinContexts    = 5
	dedupePrefixLen    = 100
)

// generalProbeQuery pulls broadly relevant chunks when a topic search
// comes back sparse.
const generalProbeQuery = "important concepts key points main ideas"

// mergeQuizContexts appends general-pass chunks the topic pass did not
// already surface. Chunks are matched on a text prefix.
func mergeQuizContexts(topic, general []retriever.Result) []retriever.Result {
	seen := make(map[string]bool, len(topic))
	for _, r := range topic {
		seen[contextKey(r.Text)] = true
	}

	merged := topic
	for _, r := range general {
		key := contextKey(r.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, r)
	}
	return merged
}

func contextKey(text string) string {
	if len(text) > dedupePrefixLen {
		return text[:dedupePrefixLen]
	}
	return text
}

func (a *Assistant) topK(requested int) int {
	if requested > 0 {
		return requested
	}
	if a.cfg.Retrieval.TopK > 0 {
		return a.cfg.Retrieval.TopK
	}
	return retriever.DefaultTopK
}

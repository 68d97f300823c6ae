package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/retriever"
)

// Assistant is the pipeline surface the server exposes over HTTP.
type Assistant interface {
	Ingest(ctx context.Context, dir string) (int, error)
	Search(ctx context.Context, query string, topK int) ([]retriever.Result, error)
	Answer(ctx context.Context, question string, topK int) (string, []retriever.Result, error)
	Summarize(ctx context.Context, query string, maxLength int) (string, []retriever.Result, error)
	GenerateQuiz(ctx context.Context, query string, numQuestions int, difficulty, topic string) (*generate.Quiz, []retriever.Result, error)
}

// Server is the API server for the study assistant.
type Server struct {
	config    Config
	assistant Assistant
	logger    *zap.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The assistant is injected so the
// server shares backends with the CLI process hosting it.
func NewServer(config Config, assistant Assistant, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             50 * 1024 * 1024,
	})

	s := &Server{
		config:    config,
		assistant: assistant,
		logger:    logger,
		app:       app,
	}

	app.Get("/health", s.handleHealth)
	app.Post("/ingest", s.handleIngest)
	app.Post("/query", s.handleQuery)
	app.Post("/upload", s.handleUpload)
	app.Post("/summarize", s.handleSummarize)
	app.Post("/quiz", s.handleQuiz)
	app.Get("/search", s.handleSearch)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

package api

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/ingest"
	"github.com/studykit/studykit/pkg/llm"
	"github.com/studykit/studykit/pkg/retriever"
	"github.com/studykit/studykit/pkg/vector"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QueryRequest asks a question against the indexed documents.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// QueryResponse carries the generated answer and its source chunks.
type QueryResponse struct {
	Answer  string             `json:"answer"`
	Sources []retriever.Result `json:"sources"`
}

// SummarizeRequest asks for a summary, optionally focused by a query.
type SummarizeRequest struct {
	Query     string `json:"query,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
}

// SummarizeResponse carries the generated summary and the chunks it was
// built from.
type SummarizeResponse struct {
	Summary string             `json:"summary"`
	Sources []retriever.Result `json:"sources"`
}

// QuizRequest asks for a quiz, optionally focused by a query.
type QuizRequest struct {
	Query        string `json:"query,omitempty"`
	NumQuestions int    `json:"num_questions,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
}

// QuizResponse carries the generated quiz and the chunks it was built
// from.
type QuizResponse struct {
	Quiz    *generate.Quiz     `json:"quiz"`
	Sources []retriever.Result `json:"sources"`
}

// IngestResponse reports how many chunks the rebuild indexed.
type IngestResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

// uploadExtensions are the file types accepted by the upload endpoint.
var uploadExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
	".doc":  true,
	".pptx": true,
	".ppt":  true,
}

// statusForError maps the pipeline's error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, vector.ErrMissingIndex):
		return fiber.StatusBadRequest
	case errors.Is(err, retriever.ErrEmptyQuery), errors.Is(err, generate.ErrEmptyQuestion):
		return fiber.StatusBadRequest
	case errors.Is(err, ingest.ErrNoDocuments):
		return fiber.StatusBadRequest
	case errors.Is(err, generate.ErrEmptyContexts):
		return fiber.StatusNotFound
	case errors.Is(err, llm.ErrExternalService):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) fail(c *fiber.Ctx, requestID string, op string, err error) error {
	status := statusForError(err)
	s.logger.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)

	msg := err.Error()
	if errors.Is(err, generate.ErrEmptyContexts) {
		msg = "No context found. Ingest documents first."
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleIngest rebuilds the index from the configured data directory.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	count, err := s.assistant.Ingest(c.Context(), "")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
		}
		return s.fail(c, requestID, "ingest", err)
	}

	s.logger.Info("documents ingested",
		zap.String("request_id", requestID),
		zap.Int("chunks", count),
	)
	return c.JSON(IngestResponse{Status: "ingested", Chunks: count})
}

// handleQuery answers a question grounded in the indexed documents.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Question cannot be empty"})
	}

	answer, sources, err := s.assistant.Answer(c.Context(), strings.TrimSpace(req.Question), req.TopK)
	if err != nil {
		return s.fail(c, requestID, "query", err)
	}

	return c.JSON(QueryResponse{Answer: answer, Sources: sources})
}

// handleUpload stores one document in the data directory for a later
// ingest pass.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "file field required"})
	}

	name := filepath.Base(file.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !uploadExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "file type " + ext + " not supported"})
	}

	if err := os.MkdirAll(s.config.DataDir, 0o755); err != nil {
		return s.fail(c, requestID, "upload", err)
	}
	if err := c.SaveFile(file, filepath.Join(s.config.DataDir, name)); err != nil {
		return s.fail(c, requestID, "upload", err)
	}

	s.logger.Info("document uploaded",
		zap.String("request_id", requestID),
		zap.String("filename", name),
	)
	return c.JSON(fiber.Map{"status": "uploaded", "filename": name})
}

// handleSummarize summarizes the indexed documents, optionally focused by
// a query.
func (s *Server) handleSummarize(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	var req SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "summary overview main points"
	}

	summary, sources, err := s.assistant.Summarize(c.Context(), query, req.MaxLength)
	if err != nil {
		return s.fail(c, requestID, "summarize", err)
	}

	return c.JSON(SummarizeResponse{Summary: summary, Sources: sources})
}

// handleQuiz generates a quiz from the indexed documents.
func (s *Server) handleQuiz(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.NumQuestions < 0 || req.NumQuestions > 20 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Number of questions must be between 1 and 20"})
	}
	switch req.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Difficulty must be: easy, medium, or hard"})
	}

	topic := strings.TrimSpace(req.Query)
	query := topic
	if query == "" {
		query = "important concepts key points main ideas"
	}

	quiz, sources, err := s.assistant.GenerateQuiz(c.Context(), query, req.NumQuestions, req.Difficulty, topic)
	if err != nil {
		return s.fail(c, requestID, "quiz", err)
	}

	return c.JSON(QuizResponse{Quiz: quiz, Sources: sources})
}

// handleSearch returns raw retrieval results without generation.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "q parameter required"})
	}
	topK := c.QueryInt("top_k", 0)

	results, err := s.assistant.Search(c.Context(), query, topK)
	if err != nil {
		return s.fail(c, requestID, "search", err)
	}

	return c.JSON(fiber.Map{"results": results})
}

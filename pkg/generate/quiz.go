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
	// DefaultQuizQuestions is the default question count.
	DefaultQuizQuestions = 5

	// DefaultQuizDifficulty is the default difficulty level.
	DefaultQuizDifficulty = "medium"

	quizTemperature = 0.7

	// quizContentLimit caps how much source text goes into the prompt.
	quizContentLimit = 6000
)

// optionLabels are the only valid option keys for a question.
var optionLabels = []string{"A", "B", "C", "D"}

// Question is one multiple-choice question. Options always holds exactly
// the keys A through D and Correct is always one of them.
type Question struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
}

// Quiz is a set of questions generated from course material.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Quiz generates numQuestions multiple-choice questions from the supplied
// contexts. The model's response is run through a parser cascade so a quiz
// with at least one question always comes back on success.
func (g *Generator) Quiz(ctx context.Context, contexts []retriever.Result, numQuestions int, difficulty, topic string) (*Quiz, error) {
	if len(contexts) == 0 {
		return nil, ErrEmptyContexts
	}
	if numQuestions <= 0 {
		numQuestions = DefaultQuizQuestions
	}
	if strings.TrimSpace(difficulty) == "" {
		difficulty = DefaultQuizDifficulty
	}

	texts := make([]string, 0, len(contexts))
	for _, c := range contexts {
		texts = append(texts, c.Text)
	}
	content := strings.Join(texts, "\n\n")
	if len(content) > quizContentLimit {
		content = content[:quizContentLimit]
	}

	topicInstruction := ""
	if strings.TrimSpace(topic) != "" {
		topicInstruction = fmt.Sprintf(
			"IMPORTANT: Focus ALL questions on the topic: '%s'. Every question must be directly related to this topic.\n\n",
			topic)
	}

	prompt := fmt.Sprintf(
		"You are an expert quiz creator. Generate exactly %d %s difficulty multiple-choice questions "+
			"based ONLY on the following content. %s"+
			"Make sure questions are relevant and test understanding of the material.\n\n"+
			"For each question, you MUST provide:\n"+
			"1. A clear, specific question text\n"+
			"2. Exactly four answer options labeled A, B, C, and D\n"+
			"3. The correct answer (must be A, B, C, or D)\n"+
			"4. A brief explanation of why the answer is correct\n\n"+
			"IMPORTANT: Format your response as valid JSON only, with this exact structure:\n"+
			`{"questions": [{"question": "Your question here", "options": {"A": "Option A text", "B": "Option B text", "C": "Option C text", "D": "Option D text"}, "correct": "A", "explanation": "Why this is correct"}]}`+
			"\n\nContent to create questions from:\n%s\n\n"+
			"Generate exactly %d questions as JSON:",
		numQuestions, difficulty, topicInstruction, content, numQuestions)

	response, err := g.completer.Complete(ctx, llm.CompleteRequest{
		System:      "You are an expert at creating educational quizzes. Generate clear, well-structured questions.",
		Prompt:      prompt,
		Temperature: quizTemperature,
	})
	if err != nil {
		return nil, err
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return nil, ErrEmptyCompletion
	}

	quiz, tier := parseQuizResponse(response, numQuestions)
	if tier > 1 {
		g.logger.Debug("quiz response needed fallback parsing",
			zap.Int("parser_tier", tier),
			zap.Int("questions", len(quiz.Questions)))
	}

	return quiz, nil
}

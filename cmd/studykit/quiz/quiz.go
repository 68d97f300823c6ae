// Package quizcmder provides the quiz command for generating practice quizzes.
package quizcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/logger"
)

type quizCommander struct {
	topic        string
	numQuestions int
	difficulty   string
	showAnswers  bool
	configDir    string

	debug  bool
	logger *zap.Logger
}

const quizLongDesc string = `Generate a multiple-choice practice quiz from the indexed documents. With a
topic, every question targets that topic; without one the quiz covers the
material broadly.

Example:
  studykit quiz
  studykit quiz "cell division" --questions 10 --difficulty hard
  studykit quiz --answers`

const quizShortDesc string = "Generate a practice quiz"

func NewQuizCmd() *cobra.Command {
	cmder := &quizCommander{}

	cmd := &cobra.Command{
		Use:   "quiz [topic]",
		Short: quizShortDesc,
		Long:  quizLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmder.topic = args[0]
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&cmder.numQuestions, "questions", "n", generate.DefaultQuizQuestions, "Number of questions")
	cmd.Flags().StringVar(&cmder.difficulty, "difficulty", generate.DefaultQuizDifficulty, "Difficulty: easy, medium, or hard")
	cmd.Flags().BoolVar(&cmder.showAnswers, "answers", false, "Print the answer key after the questions")

	return cmd
}

func (c *quizCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := assistant.New(cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if ctx == nil {
		ctx = context.Background()
	}

	query := strings.TrimSpace(c.topic)
	if query == "" {
		query = "important concepts key points main ideas"
	}

	quiz, _, err := a.GenerateQuiz(ctx, query, c.numQuestions, c.difficulty, strings.TrimSpace(c.topic))
	if err != nil {
		return err
	}

	for i, q := range quiz.Questions {
		fmt.Printf("%d. %s\n", i+1, q.Question)
		for _, label := range []string{"A", "B", "C", "D"} {
			fmt.Printf("   %s) %s\n", label, q.Options[label])
		}
		fmt.Println()
	}

	if c.showAnswers {
		fmt.Println("Answer key:")
		for i, q := range quiz.Questions {
			fmt.Printf("  %d. %s", i+1, q.Correct)
			if q.Explanation != "" {
				fmt.Printf(" - %s", q.Explanation)
			}
			fmt.Println()
		}
	}

	return nil
}

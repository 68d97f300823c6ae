// Package askcmder provides the ask command for grounded question answering.
package askcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/logger"
)

type askCommander struct {
	question  string
	topK      int
	sources   bool
	configDir string

	debug  bool
	logger *zap.Logger
}

const askLongDesc string = `Ask a question and get an answer grounded in the indexed documents. The
answer uses only retrieved material; when the material does not cover the
question the model says so instead of guessing.

Example:
  studykit ask "what are the stages of mitosis?"
  studykit ask "when is the midterm?" --top 8 --sources`

const askShortDesc string = "Ask a question about the indexed documents"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]

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

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 0, "Number of chunks to retrieve (default: from config)")
	cmd.Flags().BoolVar(&cmder.sources, "sources", false, "Print the retrieved sources after the answer")

	return cmd
}

func (c *askCommander) run(ctx context.Context) error {
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

	answer, results, err := a.Answer(ctx, c.question, c.topK)
	if err != nil {
		return err
	}

	fmt.Println(answer)

	if c.sources {
		fmt.Println("\nSources:")
		for _, result := range results {
			fmt.Printf("  %s (score %.4f)\n", result.ID, result.Score)
		}
	}

	return nil
}

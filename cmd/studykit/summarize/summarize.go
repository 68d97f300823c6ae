// Package summarizecmder provides the summarize command.
package summarizecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/logger"
)

type summarizeCommander struct {
	query     string
	maxLength int
	configDir string

	debug  bool
	logger *zap.Logger
}

const summarizeLongDesc string = `Summarize the indexed documents. With a query, the summary focuses on the
most relevant material; without one it covers the main points overall.

Example:
  studykit summarize
  studykit summarize "chapter 3 thermodynamics" --length 300`

const summarizeShortDesc string = "Summarize the indexed documents"

func NewSummarizeCmd() *cobra.Command {
	cmder := &summarizeCommander{}

	cmd := &cobra.Command{
		Use:   "summarize [query]",
		Short: summarizeShortDesc,
		Long:  summarizeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmder.query = args[0]
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

	cmd.Flags().IntVar(&cmder.maxLength, "length", 0, "Target summary length in words (default 500)")

	return cmd
}

func (c *summarizeCommander) run(ctx context.Context) error {
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

	query := c.query
	if query == "" {
		query = "summary overview main points"
	}

	summary, _, err := a.Summarize(ctx, query, c.maxLength)
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}

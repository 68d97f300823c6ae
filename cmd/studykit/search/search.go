// Package searchcmder provides the search command for raw similarity search.
package searchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/logger"
)

type searchCommander struct {
	query     string
	topK      int
	configDir string

	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search the indexed documents and print the most similar chunks with their
scores. No text is generated; this shows exactly what retrieval would hand
the model.

Example:
  studykit search "photosynthesis light reactions"
  studykit search "exam topics" --top 10`

const searchShortDesc string = "Search the indexed documents"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

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

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 0, "Number of results to return (default: from config)")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
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

	results, err := a.Search(ctx, c.query, c.topK)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for i, result := range results {
		preview := strings.ReplaceAll(result.Text, "\n", " ")
		if len(preview) > 120 {
			preview = preview[:117] + "..."
		}
		fmt.Printf("#%d  score: %.4f  %s (%s)\n    %s\n", i+1, result.Score, result.ID, result.Source, preview)
	}

	return nil
}

// Package ingestcmder provides the ingest command for indexing documents.
package ingestcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/logger"
)

type ingestCommander struct {
	dataDir   string
	configDir string

	debug  bool
	logger *zap.Logger
}

const ingestLongDesc string = `Extract, chunk, and embed every supported document in the data directory,
then replace the persisted index.

Supported formats: .txt, .md, .pdf, .docx, .doc, .pptx, .ppt.

Example:
  studykit ingest
  studykit ingest --data-dir ./lectures`

const ingestShortDesc string = "Index the documents in the data directory"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

	cmd.Flags().StringVar(&cmder.dataDir, "data-dir", "", "Directory of documents to index (default: from config)")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
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

	count, err := a.Ingest(ctx, c.dataDir)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d chunks.\n", count)
	return nil
}

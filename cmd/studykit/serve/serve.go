// Package servecmder provides the serve command for the HTTP API server.
package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studykit/studykit/api"
	"github.com/studykit/studykit/pkg/assistant"
	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/logger"
)

type serveCommander struct {
	listen    string
	configDir string

	debug  bool
	logger *zap.Logger
}

const serveLongDesc string = `Run the studykit HTTP API server. The server exposes document upload,
ingestion, question answering, summarization, quiz generation, and raw
search over JSON endpoints.`

const serveShortDesc string = "Run the studykit API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for API server to listen on (default: from config)")

	return cmd
}

func (c *serveCommander) run() error {
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

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}

	a, err := assistant.New(cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.NewServer(api.Config{
		ListenAddr: listen,
		DataDir:    cfg.Storage.DataDir,
	}, a, c.logger)

	c.logger.Info("starting API server",
		zap.String("listen", listen),
	)

	return server.Run()
}

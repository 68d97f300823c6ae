// Package studykitcmder
package studykitcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/studykit/studykit/cmd/studykit/ask"
	ingestcmder "github.com/studykit/studykit/cmd/studykit/ingest"
	quizcmder "github.com/studykit/studykit/cmd/studykit/quiz"
	searchcmder "github.com/studykit/studykit/cmd/studykit/search"
	servecmder "github.com/studykit/studykit/cmd/studykit/serve"
	summarizecmder "github.com/studykit/studykit/cmd/studykit/summarize"
	versioncmder "github.com/studykit/studykit/cmd/version"
)

const studykitLongDesc string = `Studykit answers questions, writes summaries, and builds quizzes from your
own course documents.

Typical workflow:
  studykit ingest      Index the documents in your data directory
  studykit ask         Ask a question grounded in the indexed material
  studykit quiz        Generate a practice quiz
  studykit serve       Run the HTTP API server`

const studykitShortDesc string = "Studykit - study assistant for your course documents"

func NewStudykitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studykit",
		Short: studykitShortDesc,
		Long:  studykitLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: current directory)")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(summarizecmder.NewSummarizeCmd())
	cmd.AddCommand(quizcmder.NewQuizCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

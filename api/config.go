// Package api provides the HTTP API server for ingesting documents and
// querying the study assistant.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// DataDir is where uploaded documents are stored
	DataDir string
}

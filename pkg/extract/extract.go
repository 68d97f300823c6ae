// Package extract converts course documents into plain text.
//
// Each supported format is handled by its own Extractor variant; a registry
// keyed by file extension selects the variant. Adding a format means adding
// a variant and registering it, not branching existing code.
package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Document is a source document reduced to plain text. Documents are
// transient: read once during ingestion and never persisted.
type Document struct {
	// Name is the file name, used as the chunk source identifier.
	Name string

	// Text is the extracted plain text. May be empty for documents with no
	// extractable text; the chunker skips those.
	Text string
}

// Extractor converts one document format into plain text.
type Extractor interface {
	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract reads the file at path and returns its plain text. Files with
	// no extractable text yield an empty string, not an error.
	Extract(path string) (string, error)
}

// FileError reports an extraction failure for a single file. One bad file
// never aborts a bulk ingestion; callers collect these and proceed with the
// documents that did extract.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// registry maps a file extension to its extractor.
var registry = map[string]Extractor{}

func register(e Extractor) {
	for _, ext := range e.Extensions() {
		registry[ext] = e
	}
}

func init() {
	register(&Plaintext{})
	register(&PDF{})
	register(&DOCX{})
	register(&PPTX{})
}

// ForPath returns the extractor responsible for path, or nil when the
// format is unsupported.
func ForPath(path string) Extractor {
	return registry[strings.ToLower(filepath.Ext(path))]
}

// FromDir scans dir recursively and extracts every supported document.
// Unsupported extensions are skipped silently; per-file extraction failures
// are collected and returned alongside the documents that succeeded. Only a
// missing or unreadable directory is a hard error.
func FromDir(dir string, logger *zap.Logger) ([]Document, []*FileError, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("data directory not found: %w", err)
	}

	var (
		docs     []Document
		failures []*FileError
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		extractor := ForPath(path)
		if extractor == nil {
			return nil
		}

		text, err := extractor.Extract(path)
		if err != nil {
			fe := &FileError{File: path, Err: err}
			failures = append(failures, fe)
			logger.Warn("skipping unreadable document",
				zap.String("file", path),
				zap.Error(err),
			)
			return nil
		}

		docs = append(docs, Document{
			Name: filepath.Base(path),
			Text: text,
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	logger.Debug("extracted documents",
		zap.String("dir", dir),
		zap.Int("documents", len(docs)),
		zap.Int("failures", len(failures)),
	)

	return docs, failures, nil
}

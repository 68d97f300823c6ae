package embeddings

import "errors"

var (
	// ErrEmptyInput is returned when there is no non-blank text to encode.
	ErrEmptyInput = errors.New("no text to encode")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")
)

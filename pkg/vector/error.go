package vector

import "errors"

var (
	// ErrMissingIndex is returned when the persisted index artifacts are
	// absent or incomplete. Run ingestion to build them.
	ErrMissingIndex = errors.New("index artifacts missing, run ingestion first")

	// ErrDimensionMismatch is returned when a query vector's width does not
	// match the index. This happens when the embedding model changed after
	// the index was built; a full rebuild is required.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex is returned when a persisted artifact cannot be
	// decoded.
	ErrCorruptIndex = errors.New("index artifact corrupt")
)

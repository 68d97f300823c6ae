package generate

import "errors"

var (
	// ErrEmptyQuestion means the question text was blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyContexts means no retrieved contexts were supplied.
	ErrEmptyContexts = errors.New("contexts cannot be empty")

	// ErrEmptyCompletion means the model returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion from model")
)

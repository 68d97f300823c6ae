package retriever

import "errors"

var (
	// ErrEmptyQuery means the search query was blank.
	ErrEmptyQuery = errors.New("query cannot be empty")
)

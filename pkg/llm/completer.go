// Package llm defines the boundary to the external text-completion service.
//
// The core treats the service as opaque: a system instruction and a user
// prompt go in, completion text or a failure comes out. Nothing here
// interprets structured fields of any provider's response beyond extracting
// that single text field.
package llm

import "context"

// CompleteRequest carries one completion call's inputs.
type CompleteRequest struct {
	// System is the system instruction establishing the assistant's role.
	System string

	// Prompt is the user-turn content.
	Prompt string

	// Temperature controls sampling randomness.
	Temperature float32

	// MaxTokens caps the completion length. Zero means the backend default.
	MaxTokens int
}

// Completer produces a text completion for a request. Calls are blocking
// and synchronous with no built-in retry; a transient failure surfaces
// immediately to the caller.
type Completer interface {
	// Complete returns the completion text for req.
	Complete(ctx context.Context, req CompleteRequest) (string, error)

	// Close releases any resources held by the completer.
	Close() error
}

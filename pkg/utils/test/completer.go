package testutils

import (
	"context"
	"errors"

	"github.com/studykit/studykit/pkg/llm"
)

// MockCompleter is a test completer that replays canned responses
type MockCompleter struct {
	// Response is returned for every request unless Err is set
	Response string

	// Err is returned instead of a response when non-nil
	Err error

	// Requests records every request received, in order
	Requests []llm.CompleteRequest
}

func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Response: response}
}

func (m *MockCompleter) Complete(_ context.Context, req llm.CompleteRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockCompleter) Close() error {
	return nil
}

// ErrMockCompleter is a sentinel for failure-path tests.
var ErrMockCompleter = errors.New("mock completer failure")

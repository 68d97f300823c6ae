package llm

import "errors"

// ErrExternalService is returned when the completion service is unreachable,
// rejects authentication, or returns nothing usable. The underlying cause is
// wrapped alongside it.
var ErrExternalService = errors.New("completion service failed")

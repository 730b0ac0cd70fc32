package sentinel

import "errors"

// Infrastructure facts. Stores and sinks return these, usually wrapped, and
// services translate them into domain errors.
//
//   - ErrNotFound: the instance has no stored state
//   - ErrConflict: a concurrent writer won and the retry budget ran out
//   - ErrUnavailable: a backing service is refusing work for now
//
// Rejections of a request belong in pkg/domain-errors, not here.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)

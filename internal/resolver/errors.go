package resolver

import "fmt"

// The error taxonomy the protocol layer maps to status codes:
// ParseError (client input), NotFoundError (missing object),
// DeniedError (outside scope), StoreUnavailableError (transient store
// failure, retryable by the caller).

// ParseError reports a malformed resource URI.
type ParseError struct {
	URI string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid resource URI %q", e.URI)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a well-formed identifier with no matching object.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DeniedError reports a resource outside the configured scope. The
// message is fixed: a denial must never reveal whether the resource
// exists or where it lives.
type DeniedError struct{}

func (e *DeniedError) Error() string {
	return "resource is outside the configured scope"
}

// AmbiguousNameError reports a notebook-name scope that matches more
// than one notebook. Name scopes are a security boundary, so an
// ambiguous name resolves to nothing rather than to whichever notebook
// the store happens to list first.
type AmbiguousNameError struct {
	Name    string
	Matches int
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("notebook name %q matches %d notebooks; scope by notebook id instead", e.Name, e.Matches)
}

// StoreUnavailableError reports a transient backing-store failure. The
// cause stays attached for logs; the message stays generic.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return "backing store unavailable"
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

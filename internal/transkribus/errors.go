package transkribus

import "fmt"

// AuthError reports a login the service rejected or answered unusably.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("authentication failed: %v", e.Err) }

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError reports that no collection matched the requested name.
// Matching is exact and case-sensitive.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("could not find collection %q", e.Name) }

// TransportError wraps a network failure or an unexpected service response
// for any call after authentication.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

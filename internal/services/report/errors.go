package report

import "fmt"

// ErrorKind classifies Admin API failures so the presentation layer
// can choose how to render each one.
type ErrorKind int

const (
	// KindTransport covers network and timeout failures.
	KindTransport ErrorKind = iota
	// KindAuth is a 401: the admin key is invalid.
	KindAuth
	// KindPermission is a 403: the key lacks admin permissions.
	KindPermission
	// KindServer is any other non-2xx response.
	KindServer
	// KindMalformed is a response body that could not be decoded.
	KindMalformed
	// KindCredential means no admin key could be obtained at all.
	KindCredential
)

// String returns a short label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	case KindCredential:
		return "credential"
	default:
		return "unknown"
	}
}

// Error is a classified Admin API failure. Status is the HTTP status
// code when one was received, zero otherwise.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusKind maps a non-2xx HTTP status to an error kind.
func statusKind(status int) ErrorKind {
	switch status {
	case 401:
		return KindAuth
	case 403:
		return KindPermission
	default:
		return KindServer
	}
}

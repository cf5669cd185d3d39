package catalog

import (
	"errors"
	"fmt"

	"github.com/five82/kiosk/internal/storeapi"
)

// ErrNotLoaded is returned when a form is opened before a successful fetch.
var ErrNotLoaded = errors.New("catalog not loaded")

// NotFoundError reports an operation on an id absent from session state.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item #%d not found", e.ID)
}

// ValidationError reports malformed form input.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ErrorKind classifies session errors for presentation.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindRemote
	KindNotFound
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// KindOf maps err onto one of the session error kinds.
func KindOf(err error) ErrorKind {
	var (
		netErr        *storeapi.NetworkError
		remoteErr     *storeapi.RemoteError
		notFoundErr   *NotFoundError
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// UserMessage renders err as a short, user-facing line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		netErr    *storeapi.NetworkError
		remoteErr *storeapi.RemoteError
	)
	switch {
	case errors.As(err, &remoteErr):
		return fmt.Sprintf("Catalog service returned %d for %s %s", remoteErr.StatusCode, remoteErr.Method, remoteErr.Path)
	case errors.As(err, &netErr):
		return fmt.Sprintf("Cannot reach catalog service: %v", netErr.Err)
	default:
		return err.Error()
	}
}

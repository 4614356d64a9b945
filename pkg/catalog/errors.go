package catalog

import (
	"errors"
	"fmt"

	"github.com/rishia17/ecommerceweb/pkg/types"
)

// FetchError is returned for every failed catalog fetch.
type FetchError struct {
	Kind    types.FailureKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("catalog %s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("catalog %s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("catalog %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("catalog %s", e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func transportError(err error) error {
	return &FetchError{Kind: types.Transport, Err: err}
}

func rejectedError(message string) error {
	return &FetchError{Kind: types.BackendRejected, Message: message}
}

func KindOf(err error) (types.FailureKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

func IsTransport(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == types.Transport
}

func IsBackendRejected(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == types.BackendRejected
}

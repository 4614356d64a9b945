package cart

import (
	"errors"
	"fmt"

	"github.com/rishia17/ecommerceweb/pkg/types"
)

// CartError is returned when the backend did not confirm an add.
type CartError struct {
	Kind    types.FailureKind
	Message string
	Err     error
}

func (e *CartError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("add to cart %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("add to cart %s: %v", e.Kind, e.Err)
}

func (e *CartError) Unwrap() error {
	return e.Err
}

// Message returns the text to show inline next to the product.
func Message(err error) string {
	var ce *CartError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

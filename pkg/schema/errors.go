package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// ValidationError is a single attribute that failed validation.
type ValidationError struct {
	Key    string
	Reason string
	Value  domain.Value
}

func (e *ValidationError) Error() string {
	if e.Value.IsNull() {
		return fmt.Sprintf("attribute %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("attribute %q: %s (got %s)", e.Key, e.Reason, e.Value.Kind())
}

// AggregateError collects every failure of one validation run.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns the individual failures if err carries an
// AggregateError, otherwise nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

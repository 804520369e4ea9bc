package service

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SchemaFilter  = "filter"
	SchemaInsert  = "insert"
	SchemaUpdate  = "update"
	SchemaOptions = "options"
)

// ErrInvalidFilter matches every InvalidFilterError via errors.Is.
var ErrInvalidFilter = errors.New("invalid filter")

// SchemaValidationError is returned when a filter, payload or query option is
// rejected before anything reaches the store.
type SchemaValidationError struct {
	Schema   string   // filter, insert, update or options
	Problems []string // one entry per violation
	Err      error    // set when a custom validator failed
}

func NewSchemaValidationError(schema string, problems ...string) *SchemaValidationError {
	return &SchemaValidationError{Schema: schema, Problems: problems}
}

func (e *SchemaValidationError) Error() string {
	if len(e.Problems) == 0 && e.Err != nil {
		return fmt.Sprintf("%s validation failed: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Schema, strings.Join(e.Problems, "; "))
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// InvalidFilterError is returned when a mutating operation resolves to no
// predicate, which would otherwise touch every row.
type InvalidFilterError struct {
	Operation string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s: invalid filter: refusing to run without a predicate", e.Operation)
}

func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

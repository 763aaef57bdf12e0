package search

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid search request")
	ErrBackend    = errors.New("search backend failure")
)

// Backend operation names used in BackendError.
const (
	OpSearch  = "search"
	OpFilters = "filters"
	OpSuggest = "suggest"
	OpUpsert  = "upsert"
	OpDelete  = "delete"
)

type ValidationError struct {
	Field  string
	Reason string
}

type BackendError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("search backend %s failed: %s", e.Op, e.Err)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

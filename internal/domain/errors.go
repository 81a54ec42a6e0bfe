package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidQuery signals malformed or empty input. Such queries are never matched.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoMatch signals a valid query with no catalog entry above the acceptance threshold.
	ErrNoMatch = errors.New("no match")
	// ErrNotFound signals a section, heading or search term absent from a valid document.
	ErrNotFound = errors.New("not found")
	// ErrAssemblyIncomplete signals a missing or unretrievable page of a multi-page document.
	ErrAssemblyIncomplete = errors.New("assembly incomplete")
	// ErrSourceUnavailable signals a failing catalog or document supplier.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// InvalidQueryError wraps ErrInvalidQuery with the offending input.
type InvalidQueryError struct {
	Input  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidQuery.Error(), e.Input, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid query error.
func NewInvalidQuery(input, reason string) error {
	return &InvalidQueryError{Input: input, Reason: reason}
}

// AssemblyIncompleteError wraps ErrAssemblyIncomplete with the pages that could not be assembled.
type AssemblyIncompleteError struct {
	Document string
	Missing  []string
}

func (e *AssemblyIncompleteError) Error() string {
	return fmt.Sprintf("%s: %s missing %s",
		ErrAssemblyIncomplete.Error(), e.Document, strings.Join(e.Missing, ", "))
}

func (e *AssemblyIncompleteError) Unwrap() error { return ErrAssemblyIncomplete }

// NewAssemblyIncomplete creates an assembly error listing the missing pages.
func NewAssemblyIncomplete(document string, missing []string) error {
	return &AssemblyIncompleteError{Document: document, Missing: missing}
}

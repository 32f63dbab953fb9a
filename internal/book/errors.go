package book

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing book and a book owned by someone else.
	ErrNotFound = errors.New("book not found")

	// ErrConflict is a lifecycle guard violation.
	ErrConflict        = errors.New("book state conflict")
	ErrAlreadyBorrowed = fmt.Errorf("%w: book is already borrowed", ErrConflict)
	ErrNotBorrowed     = fmt.Errorf("%w: book is not borrowed", ErrConflict)

	// ErrStorage marks failures of the backing store. Callers see a generic error.
	ErrStorage = errors.New("book storage failure")

	ErrUnknownGenre = errors.New("unknown genre")
)

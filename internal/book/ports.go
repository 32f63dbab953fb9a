package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository stores books. Every method is scoped to ownerID: a book owned by
// someone else is reported as ErrNotFound, exactly like a missing one.
// Failures of the store itself wrap ErrStorage.
type Repository interface {
	// Find returns one page of matching books, newest first, and the total match count.
	Find(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Book, int, error)
	FindByID(ctx context.Context, ownerID, id string) (Book, error)
	// Create assigns ID and timestamps to b and stores it.
	Create(ctx context.Context, ownerID string, b *Book) error
	// Update loads the book, applies mutate and stores the result in one step.
	// Nothing is written if mutate returns an error.
	Update(ctx context.Context, ownerID, id string, mutate func(*Book) error) (Book, error)
	Delete(ctx context.Context, ownerID, id string) error
	// Transition atomically moves the book into next. Moving to Borrowed requires
	// the book to be Available (else ErrAlreadyBorrowed) and moving to Available
	// requires it to be Borrowed (else ErrNotBorrowed).
	Transition(ctx context.Context, ownerID, id string, next Lending) (Book, error)
	// Summarize counts the owner's books from a single consistent read.
	Summarize(ctx context.Context, ownerID string) (Summary, error)
}

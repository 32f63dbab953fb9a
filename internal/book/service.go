package book

import (
	"context"
	"strings"
	"time"

	"booklibrary/internal/platform/validate"
)

// Service implements the catalog operations for one owner at a time.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List runs a filtered, paginated query.
func (s *Service) List(ctx context.Context, ownerID string, req ListRequest) (Page, error) {
	items, total, err := s.repo.Find(ctx, ownerID, req.Filter, req.Offset(), req.PageSize)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Book{}
	}
	return Page{
		Items:      items,
		Pagination: NewPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Book, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

// Create validates the request and stores a new book on the shelf. On a
// validation error nothing is stored.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (Book, error) {
	verr := &validate.Error{}
	b := req.toBook(verr)
	normalize(&b)
	validateBook(b, s.now(), verr)
	if err := verr.Err(); err != nil {
		return Book{}, err
	}

	b.OwnerID = ownerID
	if err := s.repo.Create(ctx, ownerID, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update applies a partial update and re-validates the whole resulting record
// before the repository commits it.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateRequest) (Book, error) {
	return s.repo.Update(ctx, ownerID, id, func(b *Book) error {
		verr := &validate.Error{}
		req.apply(b, verr)
		normalize(b)
		validateBook(*b, s.now(), verr)
		return verr.Err()
	})
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// Borrow lends an Available book to borrowerName.
func (s *Service) Borrow(ctx context.Context, ownerID, id, borrowerName string) (Book, error) {
	borrowerName = strings.TrimSpace(borrowerName)
	if msg := borrowerProblem("borrowerName", borrowerName); msg != "" {
		verr := &validate.Error{}
		verr.Add("borrowerName", msg)
		return Book{}, verr
	}
	since := s.now().UTC().Truncate(time.Microsecond)
	return s.repo.Transition(ctx, ownerID, id, LentTo(borrowerName, since))
}

// Return puts a Borrowed book back on the shelf.
func (s *Service) Return(ctx context.Context, ownerID, id string) (Book, error) {
	return s.repo.Transition(ctx, ownerID, id, OnShelf())
}

// Stats summarizes the owner's catalog as it is at call time.
func (s *Service) Stats(ctx context.Context, ownerID string) (Stats, error) {
	summary, err := s.repo.Summarize(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	return newStats(summary), nil
}

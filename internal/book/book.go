package book

import (
	"encoding/json"
	"time"
)

// LendingState tags whether a copy is on the shelf or lent out.
type LendingState int

const (
	Available LendingState = iota
	Borrowed
)

func (s LendingState) String() string {
	if s == Borrowed {
		return "borrowed"
	}
	return "available"
}

// Lending is the borrow state of a book. Borrower and Since are set only when State is Borrowed.
type Lending struct {
	State    LendingState
	Borrower string
	Since    time.Time
}

// OnShelf is the Available lending state.
func OnShelf() Lending {
	return Lending{State: Available}
}

// LentTo is the Borrowed lending state starting at since.
func LentTo(borrower string, since time.Time) Lending {
	return Lending{State: Borrowed, Borrower: borrower, Since: since}
}

func (l Lending) IsBorrowed() bool {
	return l.State == Borrowed
}

// Book is a catalog entry owned by exactly one principal.
type Book struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner"`
	Title           string    `json:"title" validate:"required,max=200"`
	Author          string    `json:"author" validate:"required,max=100"`
	Genre           Genre     `json:"genre"`
	PublicationYear int       `json:"publicationYear"`
	IsRead          bool      `json:"isRead"`
	CoverImageURL   *string   `json:"coverImageUrl" validate:"omitempty,url"`
	ISBN            *string   `json:"isbn" validate:"omitempty,isbn"`
	Description     *string   `json:"description" validate:"omitempty,max=1000"`
	Notes           *string   `json:"notes" validate:"omitempty,max=500"`
	Rating          *int      `json:"rating"`
	Tags            []string  `json:"tags" validate:"dive,max=30"`
	Lending         Lending   `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type bookJSON struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Genre           Genre      `json:"genre"`
	PublicationYear int        `json:"publicationYear"`
	IsRead          bool       `json:"isRead"`
	CoverImageURL   *string    `json:"coverImageUrl"`
	ISBN            *string    `json:"isbn"`
	Description     *string    `json:"description"`
	Notes           *string    `json:"notes"`
	Rating          *int       `json:"rating"`
	Tags            []string   `json:"tags"`
	BorrowedBy      *string    `json:"borrowedBy"`
	BorrowedDate    *time.Time `json:"borrowedDate"`
	IsBorrowed      bool       `json:"isBorrowed"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MarshalJSON flattens the lending state into borrowedBy/borrowedDate, which are
// either both null or both set.
func (b Book) MarshalJSON() ([]byte, error) {
	out := bookJSON{
		ID:              b.ID,
		OwnerID:         b.OwnerID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		PublicationYear: b.PublicationYear,
		IsRead:          b.IsRead,
		CoverImageURL:   b.CoverImageURL,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Notes:           b.Notes,
		Rating:          b.Rating,
		Tags:            b.Tags,
		IsBorrowed:      b.Lending.IsBorrowed(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if b.Lending.IsBorrowed() {
		borrower, since := b.Lending.Borrower, b.Lending.Since
		out.BorrowedBy = &borrower
		out.BorrowedDate = &since
	}
	return json.Marshal(out)
}

// clone copies b so that stored records never share slices or pointers with callers.
func (b Book) clone() Book {
	c := b
	c.CoverImageURL = cloneString(b.CoverImageURL)
	c.ISBN = cloneString(b.ISBN)
	c.Description = cloneString(b.Description)
	c.Notes = cloneString(b.Notes)
	if b.Rating != nil {
		r := *b.Rating
		c.Rating = &r
	}
	if b.Tags != nil {
		c.Tags = append([]string(nil), b.Tags...)
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

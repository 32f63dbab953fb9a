package book

import (
	"strings"

	"booklibrary/internal/platform/validate"
)

// CreateRequest is the body of POST /api/books. Lending state is not accepted here;
// a new book always starts on the shelf.
type CreateRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Genre           string   `json:"genre"`
	PublicationYear *int     `json:"publicationYear"`
	IsRead          bool     `json:"isRead"`
	CoverImageURL   *string  `json:"coverImageUrl"`
	ISBN            *string  `json:"isbn"`
	Description     *string  `json:"description"`
	Notes           *string  `json:"notes"`
	Rating          *int     `json:"rating"`
	Tags            []string `json:"tags"`
}

func (req CreateRequest) toBook(verr *validate.Error) Book {
	b := Book{
		Title:         req.Title,
		Author:        req.Author,
		IsRead:        req.IsRead,
		CoverImageURL: req.CoverImageURL,
		ISBN:          req.ISBN,
		Description:   req.Description,
		Notes:         req.Notes,
		Rating:        req.Rating,
		Tags:          req.Tags,
		Lending:       OnShelf(),
	}
	b.Genre = parseGenreField(req.Genre, verr)
	if req.PublicationYear == nil {
		verr.Add("publicationYear", "publicationYear is required")
	} else {
		b.PublicationYear = *req.PublicationYear
	}
	return b
}

func parseGenreField(raw string, verr *validate.Error) Genre {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add("genre", "genre is required")
		return 0
	}
	g, err := ParseGenre(raw)
	if err != nil {
		verr.Add("genre", "genre must be one of: "+genreList())
		return 0
	}
	return g
}

// UpdateRequest is a partial update. Absent fields are left unchanged; a blank
// string clears an optional text field. Lending changes only through borrow/return.
type UpdateRequest struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	Genre           *string   `json:"genre"`
	PublicationYear *int      `json:"publicationYear"`
	IsRead          *bool     `json:"isRead"`
	CoverImageURL   *string   `json:"coverImageUrl"`
	ISBN            *string   `json:"isbn"`
	Description     *string   `json:"description"`
	Notes           *string   `json:"notes"`
	Rating          *int      `json:"rating"`
	Tags            *[]string `json:"tags"`
}

func (req UpdateRequest) apply(b *Book, verr *validate.Error) {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Genre != nil {
		b.Genre = parseGenreField(*req.Genre, verr)
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}
	if req.IsRead != nil {
		b.IsRead = *req.IsRead
	}
	if req.CoverImageURL != nil {
		b.CoverImageURL = cloneString(req.CoverImageURL)
	}
	if req.ISBN != nil {
		b.ISBN = cloneString(req.ISBN)
	}
	if req.Description != nil {
		b.Description = cloneString(req.Description)
	}
	if req.Notes != nil {
		b.Notes = cloneString(req.Notes)
	}
	if req.Rating != nil {
		r := *req.Rating
		b.Rating = &r
	}
	if req.Tags != nil {
		b.Tags = append([]string{}, (*req.Tags)...)
	}
}

// BorrowRequest names the borrower. borrowedBy is accepted as an alias of borrowerName.
type BorrowRequest struct {
	BorrowerName string `json:"borrowerName"`
	BorrowedBy   string `json:"borrowedBy"`
}

func (req BorrowRequest) Name() string {
	if name := strings.TrimSpace(req.BorrowerName); name != "" {
		return name
	}
	return strings.TrimSpace(req.BorrowedBy)
}

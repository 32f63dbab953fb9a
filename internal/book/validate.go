package book

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"booklibrary/internal/platform/validate"
)

const (
	MinPublicationYear = 1000
	MaxBorrowerLength  = 100
	MaxSearchLength    = 100
)

// normalize trims text fields, turns blank optional text into absent values and
// drops blank or repeated tags while keeping their order.
func normalize(b *Book) {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.CoverImageURL = trimOptional(b.CoverImageURL)
	b.ISBN = trimOptional(b.ISBN)
	b.Description = trimOptional(b.Description)
	b.Notes = trimOptional(b.Notes)

	if b.Tags != nil {
		seen := make(map[string]bool, len(b.Tags))
		tags := make([]string, 0, len(b.Tags))
		for _, t := range b.Tags {
			t = strings.TrimSpace(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
		b.Tags = tags
	}
	if b.Lending.IsBorrowed() {
		b.Lending.Borrower = strings.TrimSpace(b.Lending.Borrower)
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// maxPublicationYear allows books announced for next year.
func maxPublicationYear(now time.Time) int {
	return now.Year() + 1
}

// validateBook checks every invariant of a full record and appends problems to verr.
// Fields already reported by request parsing are not reported twice.
func validateBook(b Book, now time.Time, verr *validate.Error) {
	for _, fe := range validate.Struct(b).Fields {
		if !verr.Has(fe.Field) {
			verr.Add(fe.Field, fe.Message)
		}
	}

	if !verr.Has("genre") && !b.Genre.Valid() {
		verr.Add("genre", "genre must be one of: "+genreList())
	}

	if !verr.Has("publicationYear") {
		maxYear := maxPublicationYear(now)
		if b.PublicationYear < MinPublicationYear || b.PublicationYear > maxYear {
			verr.Add("publicationYear", fmt.Sprintf("publicationYear must be between %d and %d", MinPublicationYear, maxYear))
		}
	}

	if b.Rating != nil && (*b.Rating < 1 || *b.Rating > 5) {
		verr.Add("rating", "rating must be between 1 and 5")
	}

	switch b.Lending.State {
	case Available:
		if b.Lending.Borrower != "" || !b.Lending.Since.IsZero() {
			verr.Add("borrowedBy", "borrowedBy and borrowedDate must be cleared together")
		}
	case Borrowed:
		if msg := borrowerProblem("borrowedBy", b.Lending.Borrower); msg != "" {
			verr.Add("borrowedBy", msg)
		}
		if b.Lending.Since.IsZero() {
			verr.Add("borrowedDate", "borrowedDate is required while the book is borrowed")
		}
	default:
		verr.Add("borrowedBy", "unknown lending state")
	}
}

func borrowerProblem(field, name string) string {
	switch {
	case name == "":
		return field + " is required"
	case utf8.RuneCountInString(name) > MaxBorrowerLength:
		return fmt.Sprintf("%s cannot exceed %d characters", field, MaxBorrowerLength)
	}
	return ""
}

// Validate normalizes b and reports every violated invariant, or nil.
func Validate(b *Book, now time.Time) error {
	normalize(b)
	verr := &validate.Error{}
	validateBook(*b, now, verr)
	return verr.Err()
}

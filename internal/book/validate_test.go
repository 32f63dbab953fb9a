package book

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/platform/validate"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func validBook() Book {
	return Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           ScienceFiction,
		PublicationYear: 1965,
		Lending:         OnShelf(),
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *validate.Error
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestValidate_PublicationYear(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{year: 999, wantErr: true},
		{year: 1000},
		{year: 2026},
		{year: 2027, wantErr: true},
		{year: 3000, wantErr: true},
	}
	for _, tt := range tests {
		b := validBook()
		b.PublicationYear = tt.year
		err := Validate(&b, fixedNow)
		if tt.wantErr {
			assert.Equal(t, []string{"publicationYear"}, fieldsOf(t, err), "year %d", tt.year)
		} else {
			assert.NoError(t, err, "year %d", tt.year)
		}
	}
}

func TestValidate_ISBN(t *testing.T) {
	tests := []struct {
		isbn  string
		valid bool
	}{
		{isbn: "0-306-40615-2", valid: true},
		{isbn: "978-0-306-40615-7", valid: true},
		{isbn: "978 0 306 40615 7", valid: true},
		{isbn: "12345"},
		{isbn: "030640615X"},
		{isbn: "97803064061571"},
	}
	for _, tt := range tests {
		b := validBook()
		b.ISBN = strPtr(tt.isbn)
		err := Validate(&b, fixedNow)
		if tt.valid {
			assert.NoError(t, err, tt.isbn)
		} else {
			assert.Equal(t, []string{"isbn"}, fieldsOf(t, err), tt.isbn)
		}
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	b := Book{
		Title:           strings.Repeat("t", 201),
		Author:          "  ",
		PublicationYear: 3000,
		CoverImageURL:   strPtr("not a url"),
		Rating:          intPtr(0),
		Tags:            []string{"ok", strings.Repeat("x", 31)},
		Description:     strPtr(strings.Repeat("d", 1001)),
		Notes:           strPtr(strings.Repeat("n", 501)),
		Lending:         OnShelf(),
	}

	err := Validate(&b, fixedNow)

	assert.ElementsMatch(t, []string{
		"title", "author", "genre", "publicationYear", "coverImageUrl",
		"rating", "tags[1]", "description", "notes",
	}, fieldsOf(t, err))
}

func TestValidate_Normalizes(t *testing.T) {
	b := validBook()
	b.Title = "  Dune  "
	b.Notes = strPtr("   ")
	b.Tags = []string{" classic ", "", "classic", "space"}

	require.NoError(t, Validate(&b, fixedNow))

	assert.Equal(t, "Dune", b.Title)
	assert.Nil(t, b.Notes)
	assert.Equal(t, []string{"classic", "space"}, b.Tags)
}

func TestValidate_LendingFieldsTogether(t *testing.T) {
	b := validBook()
	b.Lending = Lending{State: Borrowed, Borrower: "Alice"}
	assert.Equal(t, []string{"borrowedDate"}, fieldsOf(t, Validate(&b, fixedNow)))

	b.Lending = Lending{State: Available, Borrower: "Alice"}
	assert.Equal(t, []string{"borrowedBy"}, fieldsOf(t, Validate(&b, fixedNow)))

	b.Lending = LentTo(strings.Repeat("a", 101), fixedNow)
	assert.Equal(t, []string{"borrowedBy"}, fieldsOf(t, Validate(&b, fixedNow)))

	b.Lending = LentTo("Alice", fixedNow)
	assert.NoError(t, Validate(&b, fixedNow))
}

func TestGenre(t *testing.T) {
	assert.Len(t, Genres(), 27)
	assert.Equal(t, Fiction, Genres()[0])
	assert.Equal(t, Other, Genres()[26])

	g, err := ParseGenre("Science Fiction")
	require.NoError(t, err)
	assert.Equal(t, ScienceFiction, g)
	assert.Equal(t, "Self-Help", SelfHelp.String())

	_, err = ParseGenre("science fiction")
	assert.ErrorIs(t, err, ErrUnknownGenre)
	assert.False(t, Genre(0).Valid())
}

func TestBook_MarshalJSON(t *testing.T) {
	b := validBook()
	b.ID = "b-1"

	var available map[string]any
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &available))
	assert.Nil(t, available["borrowedBy"])
	assert.Nil(t, available["borrowedDate"])
	assert.Equal(t, false, available["isBorrowed"])
	assert.Equal(t, "Science Fiction", available["genre"])
	assert.Equal(t, []any{}, available["tags"])

	b.Lending = LentTo("Alice", fixedNow)
	var lent map[string]any
	raw, err = json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &lent))
	assert.Equal(t, "Alice", lent["borrowedBy"])
	assert.Equal(t, "2025-06-01T12:00:00Z", lent["borrowedDate"])
	assert.Equal(t, true, lent["isBorrowed"])
}

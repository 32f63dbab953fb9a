package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Email    string   `json:"email" validate:"required,email"`
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,password_strength"`
	ISBN     string   `json:"isbn" validate:"omitempty,isbn"`
	Rating   *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Tags     []string `json:"tags" validate:"dive,max=5"`
}

func valid() testStruct {
	return testStruct{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "Test123!@#",
		ISBN:     "9780123456789",
	}
}

func TestStruct_ValidInput(t *testing.T) {
	verr := Struct(valid())
	assert.NoError(t, verr.Err())
}

func TestStruct_ReportsEveryField(t *testing.T) {
	verr := Struct(testStruct{})
	require.Error(t, verr.Err())

	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("username"))
	assert.True(t, verr.Has("password"))
}

func TestStruct_ISBN(t *testing.T) {
	cases := []struct {
		isbn  string
		valid bool
	}{
		{"9780123456789", true},
		{"0123456789", true},
		{"0-306-40615-2", true},
		{"978 0 123456 78 9", true},
		{"012345678X", false},
		{"12345", false},
		{"invalid", false},
		{"", true},
	}

	for _, tc := range cases {
		s := valid()
		s.ISBN = tc.isbn
		verr := Struct(s)
		assert.Equal(t, !tc.valid, verr.Has("isbn"), "isbn %q", tc.isbn)
	}
}

func TestStruct_RatingRange(t *testing.T) {
	for _, tc := range []struct {
		rating int
		valid  bool
	}{{1, true}, {5, true}, {0, false}, {6, false}} {
		s := valid()
		r := tc.rating
		s.Rating = &r
		assert.Equal(t, !tc.valid, Struct(s).Has("rating"), "rating %d", tc.rating)
	}

	s := valid()
	s.Rating = nil
	assert.False(t, Struct(s).Has("rating"))
}

func TestStruct_SliceElementsNamedByIndex(t *testing.T) {
	s := valid()
	s.Tags = []string{"ok", "too-long-tag"}
	verr := Struct(s)
	assert.True(t, verr.Has("tags[1]"), "got %v", verr.Fields)
}

func TestError_Message(t *testing.T) {
	verr := &Error{}
	assert.Nil(t, verr.Err())

	verr.Add("publicationYear", "publicationYear must be a valid year")
	verr.Add("isbn", "isbn is invalid")
	assert.Equal(t, "validation failed: publicationYear: publicationYear must be a valid year; isbn: isbn is invalid", verr.Error())
}

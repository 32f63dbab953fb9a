package book

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Genre is the closed set of catalog genres. The zero value is not a genre.
type Genre int

const (
	Fiction Genre = iota + 1
	NonFiction
	Mystery
	Romance
	ScienceFiction
	Fantasy
	Biography
	History
	SelfHelp
	Business
	Technology
	Health
	Travel
	Cooking
	Art
	Religion
	Philosophy
	Psychology
	Education
	Children
	YoungAdult
	Poetry
	Drama
	Horror
	Thriller
	Adventure
	Other
)

var genreNames = [...]string{
	Fiction:        "Fiction",
	NonFiction:     "Non-Fiction",
	Mystery:        "Mystery",
	Romance:        "Romance",
	ScienceFiction: "Science Fiction",
	Fantasy:        "Fantasy",
	Biography:      "Biography",
	History:        "History",
	SelfHelp:       "Self-Help",
	Business:       "Business",
	Technology:     "Technology",
	Health:         "Health",
	Travel:         "Travel",
	Cooking:        "Cooking",
	Art:            "Art",
	Religion:       "Religion",
	Philosophy:     "Philosophy",
	Psychology:     "Psychology",
	Education:      "Education",
	Children:       "Children",
	YoungAdult:     "Young Adult",
	Poetry:         "Poetry",
	Drama:          "Drama",
	Horror:         "Horror",
	Thriller:       "Thriller",
	Adventure:      "Adventure",
	Other:          "Other",
}

// Genres lists every genre in declaration order.
func Genres() []Genre {
	out := make([]Genre, 0, len(genreNames)-1)
	for g := Fiction; g <= Other; g++ {
		out = append(out, g)
	}
	return out
}

func (g Genre) Valid() bool {
	return g >= Fiction && g <= Other
}

func (g Genre) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Genre(%d)", int(g))
	}
	return genreNames[g]
}

// ParseGenre matches the display name exactly, as stored and as sent by clients.
func ParseGenre(s string) (Genre, error) {
	for g := Fiction; g <= Other; g++ {
		if genreNames[g] == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenre, s)
}

func genreList() string {
	names := make([]string, 0, len(genreNames)-1)
	for _, g := range Genres() {
		names = append(names, g.String())
	}
	return strings.Join(names, ", ")
}

func (g Genre) MarshalJSON() ([]byte, error) {
	if !g.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(g.String())
}

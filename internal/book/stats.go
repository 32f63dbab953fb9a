package book

import (
	"math"
	"sort"
)

type GenreCount struct {
	Genre Genre `json:"genre"`
	Count int   `json:"count"`
}

// Summary is what the repository reports for stats: totals and per genre
// counts taken from the same snapshot.
type Summary struct {
	Total    int
	Read     int
	Borrowed int
	Genres   []GenreCount
}

type Stats struct {
	TotalBooks        int          `json:"totalBooks"`
	ReadBooks         int          `json:"readBooks"`
	UnreadBooks       int          `json:"unreadBooks"`
	BorrowedBooks     int          `json:"borrowedBooks"`
	ReadPercentage    int          `json:"readPercentage"`
	GenreDistribution []GenreCount `json:"genreDistribution"`
}

// ReadPercentage is 0 for an empty catalog.
func ReadPercentage(read, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(read) / float64(total)))
}

// sortGenreCounts orders by count descending, then by genre declaration order.
func sortGenreCounts(counts []GenreCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Genre < counts[j].Genre
	})
}

func newStats(s Summary) Stats {
	genres := append([]GenreCount{}, s.Genres...)
	sortGenreCounts(genres)
	return Stats{
		TotalBooks:        s.Total,
		ReadBooks:         s.Read,
		UnreadBooks:       s.Total - s.Read,
		BorrowedBooks:     s.Borrowed,
		ReadPercentage:    ReadPercentage(s.Read, s.Total),
		GenreDistribution: genres,
	}
}

package analytics

import (
	"sort"

	"movie-ratings/internal/models"
)

// GenreTotal is the number of records carrying one genre flag.
type GenreTotal struct {
	Genre string `json:"genre"`
	Total int    `json:"total"`
}

// GenreTotals sums every genre flag across all records and returns one entry
// per genre column, largest total first. Equal totals keep schema order.
// A record contributes to each genre it has set, so the totals may add up to
// more than the record count.
func GenreTotals(ds *models.Dataset) []GenreTotal {
	genres := ds.Genres()
	totals := make([]GenreTotal, len(genres))
	for i, g := range genres {
		totals[i].Genre = g
	}

	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		for j, g := range genres {
			if rec.HasGenre(g) {
				totals[j].Total++
			}
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	return totals
}

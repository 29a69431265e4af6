package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenreTotals(t *testing.T) {
	ds := newDataset(t,
		row{title: "a", rating: "5", genres: []string{"Comedy", "Drama"}},
		row{title: "b", rating: "4", genres: []string{"Drama"}},
		row{title: "c", rating: "3", genres: []string{"Action", "Comedy", "Drama"}},
		row{title: "d", rating: "2"},
	)

	totals := GenreTotals(ds)
	require.Len(t, totals, 13)

	require.Equal(t, GenreTotal{Genre: "Drama", Total: 3}, totals[0])
	require.Equal(t, GenreTotal{Genre: "Comedy", Total: 2}, totals[1])
	require.Equal(t, GenreTotal{Genre: "Action", Total: 1}, totals[2])
	// zero totals keep schema order
	require.Equal(t, "Adventure", totals[3].Genre)

	sum, flags := 0, 0
	for i, total := range totals {
		sum += total.Total
		if i > 0 {
			require.GreaterOrEqual(t, totals[i-1].Total, total.Total)
		}
	}
	for i := 0; i < ds.Len(); i++ {
		flags += ds.Record(i).GenreFlagCount()
	}
	require.Equal(t, flags, sum)
	require.Greater(t, sum, ds.Len())
}

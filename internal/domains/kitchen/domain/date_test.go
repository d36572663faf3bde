package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCandidateDate(t *testing.T) {
	date, err := ParseCandidateDate("20231029")
	require.NoError(t, err)
	require.Equal(t, CandidateDate("20231029"), date)

	for _, invalid := range []string{"", "2023102", "202310299", "2023-1-2", "abcdefgh"} {
		_, err := ParseCandidateDate(invalid)
		require.ErrorIs(t, err, ErrInvalidDate, "input %q", invalid)
	}
}

func TestSortNewestFirst(t *testing.T) {
	dates := []CandidateDate{"20220203", "20231029", "20201001"}
	SortNewestFirst(dates)
	require.Equal(t, []CandidateDate{"20231029", "20220203", "20201001"}, dates)
}

func TestCoversAll(t *testing.T) {
	require.True(t, CoversAll(
		[]CandidateDate{"20231029", "20220203"},
		[]CandidateDate{"20220203"},
	))
	require.False(t, CoversAll(
		[]CandidateDate{"20220203"},
		[]CandidateDate{"20231029", "20220203"},
	))
	require.True(t, CoversAll(nil, nil))
}

func TestBaselineDates_NewestFirst(t *testing.T) {
	baseline := BaselineDates()
	require.NotEmpty(t, baseline)
	for i := 1; i < len(baseline); i++ {
		require.Greater(t, baseline[i-1], baseline[i])
	}
}

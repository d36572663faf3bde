package domain

import (
	"errors"
	"fmt"
	"sort"
)

// CandidateDate is an 8-digit YYYYMMDD generation batch identifier on the CDN.
type CandidateDate string

var ErrInvalidDate = errors.New("candidate date must be 8 digits")

// ParseCandidateDate validates the YYYYMMDD shape. It deliberately does not
// check calendar validity; the CDN path is an opaque batch label.
func ParseCandidateDate(s string) (CandidateDate, error) {
	if len(s) != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
	}
	return CandidateDate(s), nil
}

func (d CandidateDate) String() string { return string(d) }

// SortNewestFirst orders dates descending in place. Lexicographic order on
// YYYYMMDD strings matches chronological order.
func SortNewestFirst(dates []CandidateDate) {
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
}

// CoversAll reports whether probed is a superset of required.
func CoversAll(probed, required []CandidateDate) bool {
	seen := make(map[CandidateDate]struct{}, len(probed))
	for _, d := range probed {
		seen[d] = struct{}{}
	}
	for _, d := range required {
		if _, ok := seen[d]; !ok {
			return false
		}
	}
	return true
}

// BaselineDates is the generation-date list shipped with the service. Remote
// and user-supplied dates are merged on top; baseline entries are never
// removed.
func BaselineDates() []CandidateDate {
	return []CandidateDate{
		"20251029", "20250501", "20250430", "20250204", "20250130",
		"20241023", "20241021", "20240610", "20240530", "20240214",
		"20240206", "20231128", "20231113", "20230821", "20230818",
		"20230803", "20230426", "20230418", "20230301", "20230216",
		"20230127", "20230126", "20221107", "20221101", "20220815",
		"20220506", "20220406", "20220203", "20220110", "20211115",
		"20210831", "20210521", "20210218", "20201001",
	}
}

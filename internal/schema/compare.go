package schema

import "sort"

// ColumnDiff is the result of comparing an expected column set with the
// columns a table actually has.
type ColumnDiff struct {
	Missing []string
	Extra   []string
}

// Match reports whether the two column sets were identical.
func (d ColumnDiff) Match() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// CompareColumns compares column sets, ignoring order and duplicates.
func CompareColumns(expected, actual []string) ColumnDiff {
	want := toSet(expected)
	have := toSet(actual)

	var diff ColumnDiff
	for c := range want {
		if !have[c] {
			diff.Missing = append(diff.Missing, c)
		}
	}
	for c := range have {
		if !want[c] {
			diff.Extra = append(diff.Extra, c)
		}
	}
	sort.Strings(diff.Missing)
	sort.Strings(diff.Extra)
	return diff
}

func toSet(cols []string) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c] = true
	}
	return set
}

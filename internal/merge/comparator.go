// Package merge implements the three-way reconciliation over two
// histories: Compare finds their common prefix and divergent tails
// (spec.md §4.7), Merge combines the tails into one history (spec.md §4.8).
package merge

// Diff is the result of comparing two histories that share a common
// prefix: common is the longest shared prefix, primary is what's left of
// A after that prefix, secondary is what's left of B.
type Diff struct {
	Common    []string
	Primary   []string
	Secondary []string
}

// ArchivesDiffer reports whether either side has commands beyond the
// common prefix.
func (d Diff) ArchivesDiffer() bool {
	return len(d.Primary) > 0 || len(d.Secondary) > 0
}

// Compare computes the common prefix of a and b (the local/primary and
// remote/secondary histories) and their divergent tails. common is always
// a prefix of both inputs: common++primary == a and common++secondary == b.
func Compare(a, b []string) Diff {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	common := append([]string(nil), a[:i]...)
	primary := append([]string(nil), a[i:]...)
	secondary := append([]string(nil), b[i:]...)

	return Diff{Common: common, Primary: primary, Secondary: secondary}
}

// CalculateDifferences is an alias kept for symmetry with spec.md's naming
// (§4.7: "calculateDifferences() returning the triple").
func CalculateDifferences(a, b []string) Diff {
	return Compare(a, b)
}

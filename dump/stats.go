package dump

// Stats reports page-classification counts for a single compression run.
// Diagnostic only (spec §7): nothing in the wire format depends on these
// numbers, and a decoder never sees them.
type Stats struct {
	SameOffset int
	Dedup      int
	Delta      int
	New        int
}

// Total returns the number of target pages accounted for.
func (s Stats) Total() int {
	return s.SameOffset + s.Dedup + s.Delta + s.New
}

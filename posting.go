package blaze

import "sort"

// Posting records a single occurrence of a term: which document it
// appeared in, and at which token position within that document.
//
// Posting lists are always kept sorted by (DocumentID, Position) — every
// merge routine in internal/eval/merge.go assumes this ordering and will silently
// produce wrong results if it is violated.
type Posting struct {
	DocumentID uint32
	Position   uint32
}

// Less orders postings by (DocumentID, Position), matching the ordering
// every merge primitive in internal/eval/merge.go relies on.
func (p Posting) Less(o Posting) bool {
	if p.DocumentID != o.DocumentID {
		return p.DocumentID < o.DocumentID
	}
	return p.Position < o.Position
}

// SortPostings sorts a slice of postings in place by (DocumentID, Position).
func SortPostings(p []Posting) {
	sort.Slice(p, func(i, j int) bool { return p[i].Less(p[j]) })
}

// PosRange is a half-open [Start, End) range of token positions within a
// document that a structural element (title, category, citation, or a
// particular infobox type) occupies. Repeated occurrences of the same
// structural element within one document extend End rather than
// replacing the range — see internal/build's addStructureElem.
type PosRange struct {
	Start uint32
	End   uint32
}

// Contains reports whether position p falls within the range.
func (r PosRange) Contains(p uint32) bool {
	return p >= r.Start && p < r.End
}

// Package eval executes a preprocessed query AST against an Index,
// producing the set of matching Postings (spec Component G). The four
// merge primitives below are ported two-pointer-for-two-pointer from
// original_source/search/retrieval/src/search.rs — the teacher has no
// AST or positional-merge evaluator at all (its QueryBuilder builds
// roaring-bitmap boolean combinations directly), so this package is new
// code grounded in that Rust file.
package eval

import "github.com/onlygraphs/blaze"

// unionMerge returns every posting present in either a or b, sorted,
// with a (doc,pos) posting present on both sides emitted once.
func unionMerge(a, b []blaze.Posting) []blaze.Posting {
	i, j := 0, 0
	out := make([]blaze.Posting, 0, len(a)+len(b))
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Less(b[j])):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j].Less(a[i]):
			out = append(out, b[j])
			j++
		default: // a[i] and b[j] are equal
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// intersectionMerge pairs a's and b's postings one-to-one within each
// document present in both, emitting each pair in position order (so
// downstream scoring still has exact positions from each side). Postings
// of a shared document left without a partner on the other side are not
// emitted.
func intersectionMerge(a, b []blaze.Posting) []blaze.Posting {
	i, j := 0, 0
	var out []blaze.Posting
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocumentID == b[j].DocumentID:
			if a[i].Position < b[j].Position {
				out = append(out, a[i], b[j])
			} else {
				out = append(out, b[j], a[i])
			}
			i++
			j++
		case a[i].DocumentID < b[j].DocumentID:
			i++
		default:
			j++
		}
	}
	return out
}

// differenceMerge returns every posting in a whose document does not
// appear anywhere in b — i.e. a minus the documents present in b,
// regardless of position.
func differenceMerge(a, b []blaze.Posting) []blaze.Posting {
	i, j := 0, 0
	var out []blaze.Posting
	for i < len(a) || j < len(b) {
		if i >= len(a) {
			break
		}
		if j >= len(b) {
			out = append(out, a[i])
			i++
			continue
		}
		switch {
		case a[i].DocumentID < b[j].DocumentID:
			out = append(out, a[i])
			i++
		case a[i].DocumentID > b[j].DocumentID:
			j++
		default: // same document: a's posting is excluded
			i++
		}
	}
	return out
}

// distanceMerge returns, for every pair (l in a, r in b) within dst
// positions of each other in the same document, both l and r — including
// every r within range of a given l (not just the first), matching the
// original's peeking_take_while "consume all matches under distance, but
// not the first non-match" behaviour. Position deltas are computed with
// wraparound subtraction (r.Position - l.Position, unsigned), matching
// the original's `overflowing_sub`.
func distanceMerge(a, b []blaze.Posting, dst uint32) []blaze.Posting {
	i, j := 0, 0
	var out []blaze.Posting
	for i < len(a) && j < len(b) {
		l, r := a[i], b[j]
		if l.DocumentID == r.DocumentID {
			if r.Position-l.Position <= dst {
				out = append(out, l, r)
				j++
				for j < len(b) && b[j].DocumentID == l.DocumentID && b[j].Position-l.Position <= dst {
					out = append(out, b[j])
					j++
				}
			} else if l.Position < r.Position {
				i++
			} else {
				j++
			}
		} else if l.DocumentID < r.DocumentID {
			i++
		} else {
			j++
		}
	}
	return out
}

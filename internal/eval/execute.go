package eval

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/parser"
)

// Execute runs a preprocessed query against idx, returning the matching
// Postings. Ported from original_source/search/retrieval/src/search.rs's
// execute_query, with one deliberate deviation: WildcardQuery, which the
// original left as a `Vec::default()` stub ("needs index support"), is
// implemented for real here via the term map's wildcard lookup — see
// SPEC_FULL.md's Component G notes on why that stub is not carried
// forward.
func Execute(q *parser.Query, idx *blaze.Index) []blaze.Posting {
	if q == nil {
		return nil
	}
	switch q.Kind {
	case parser.RelationQuery:
		id, ok := idx.TitleToID(q.Root)
		if !ok {
			return nil
		}
		subset := GetDocsWithinHops(idx, id, q.Hops)
		if q.Sub != nil {
			sub := Execute(q.Sub, idx)
			out := sub[:0:0]
			for _, p := range sub {
				if subset.Contains(p.DocumentID) {
					out = append(out, p)
				}
			}
			return out
		}
		out := make([]blaze.Posting, 0, subset.GetCardinality())
		it := subset.Iterator()
		for it.HasNext() {
			out = append(out, blaze.Posting{DocumentID: it.Next(), Position: 0})
		}
		blaze.SortPostings(out)
		return out

	case parser.WildcardQuery:
		var out []blaze.Posting
		for _, term := range idx.WildcardTerms(q.Prefix, q.Postfix) {
			postings, ok := idx.GetPostings(term)
			if !ok {
				continue
			}
			out = unionMerge(out, postings)
		}
		return out

	case parser.StructureQuery:
		sub := Execute(q.Sub, idx)
		elemKey := structureKey(q.Elem)
		out := sub[:0:0]
		for _, p := range sub {
			if r, ok := idx.GetExtentFor(elemKey, p.DocumentID); ok && r.Contains(p.Position) {
				out = append(out, p)
			}
		}
		return out

	case parser.PhraseQuery:
		var acc []blaze.Posting
		for i := 0; i+1 < len(q.Tokens); i++ {
			left, _ := idx.GetPostings(q.Tokens[i])
			right, _ := idx.GetPostings(q.Tokens[i+1])
			curr := distanceMerge(left, right, 1)
			if i == 0 {
				acc = curr
			} else {
				acc = distanceMerge(acc, curr, uint32(i))
			}
		}
		return acc

	case parser.DistanceQuery:
		lhs, _ := idx.GetPostings(q.Lhs)
		rhs, _ := idx.GetPostings(q.Rhs)
		return distanceMerge(lhs, rhs, q.Dist)

	case parser.UnaryQuery:
		return differenceMerge(idx.GetAllPostings(), Execute(q.Sub, idx))

	case parser.BinaryQuery:
		lhs := Execute(q.Children[0], idx)
		rhs := Execute(q.Children[1], idx)
		if q.BinOp == parser.And {
			return intersectionMerge(lhs, rhs)
		}
		return unionMerge(lhs, rhs)

	case parser.FreetextQuery:
		var acc []blaze.Posting
		for _, t := range q.Tokens {
			postings, _ := idx.GetPostings(t)
			acc = unionMerge(acc, postings)
		}
		return acc
	}
	return nil
}

func structureKey(e parser.StructureElem) string {
	switch e.Kind {
	case parser.Title:
		return "title"
	case parser.Category:
		return "category"
	case parser.Citation:
		return "citation"
	default:
		return e.Infobox
	}
}

// maxHops is the evaluator's own ceiling on hop expansion, applied
// regardless of what a caller (a #LinksTo clause embedded in a Search
// query, or the facade's Relational operation) asks for — spec.md is
// explicit that the closure is "capped at 5 hops regardless of caller
// value".
const maxHops = 5

// GetDocsWithinHops returns every document reachable from root within
// hops steps of either an outgoing or incoming link, including root
// itself, as a roaring.Bitmap — the same document-set representation the
// teacher uses for term/query matches (query.go's QueryBuilder stack),
// applied here to a reachable-set instead of a term-match set. hops is
// clamped to maxHops before the walk starts. Ported from
// original_source/search/retrieval/src/search.rs's
// get_docs_within_hops: insert the current document, then recurse into
// the union of its incoming and outgoing neighbours at hops-1, skipping
// any neighbour already visited.
func GetDocsWithinHops(idx *blaze.Index, root uint32, hops uint32) *roaring.Bitmap {
	if hops > maxHops {
		hops = maxHops
	}
	out := roaring.NewBitmap()
	visit(idx, root, hops, out)
	return out
}

func visit(idx *blaze.Index, doc uint32, hops uint32, out *roaring.Bitmap) {
	out.Add(doc)
	if hops == 0 {
		return
	}
	all := mergeSortedUnique(idx.GetIncomingLinks(doc), idx.GetLinks(doc))
	for _, v := range all {
		if !out.Contains(v) {
			visit(idx, v, hops-1, out)
		}
	}
}

// mergeSortedUnique merges two sorted uint32 slices, matching the
// original's utils::merge helper used by get_docs_within_hops.
func mergeSortedUnique(a, b []uint32) []uint32 {
	i, j := 0, 0
	out := make([]uint32, 0, len(a)+len(b))
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Score is implemented in the rank package; Execute only materializes
// postings. SortScoredDocsDescending sorts by score descending, ties
// broken by doc id ascending for determinism.
func SortScoredDocsDescending(docs []ScoredDocument) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].DocID < docs[j].DocID
	})
}

// ScoredDocument pairs a document id with its relevance score.
type ScoredDocument struct {
	DocID uint32
	Score float64
}

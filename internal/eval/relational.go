package eval

import "github.com/onlygraphs/blaze"

// ScoredRelationDocument pairs a document id found by a relational query
// with its score and the hop distance at which it was first reached from
// the root, the Go analogue of the original retrieval crate's
// ScoredRelationDocument (not present in the retrieved original_source
// files but referenced by endpoints.rs, which this reconstructs from its
// call sites).
type ScoredRelationDocument struct {
	DocID uint32
	Score float64
	Hops  uint32
}

// HopLevels breadth-first searches the link graph (both directions) from
// root out to maxHops, returning the hop distance at which each reachable
// document (including root, at hop 0) was first discovered.
func HopLevels(idx *blaze.Index, root uint32, maxHops uint32) map[uint32]uint32 {
	levels := map[uint32]uint32{root: 0}
	frontier := []uint32{root}
	for hop := uint32(1); hop <= maxHops && len(frontier) > 0; hop++ {
		var next []uint32
		for _, doc := range frontier {
			for _, n := range mergeSortedUnique(idx.GetIncomingLinks(doc), idx.GetLinks(doc)) {
				if _, seen := levels[n]; !seen {
					levels[n] = hop
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return levels
}

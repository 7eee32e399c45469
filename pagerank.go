package blaze

// ═══════════════════════════════════════════════════════════════════════════════
// PAGERANK
// ═══════════════════════════════════════════════════════════════════════════════
// PageRank scores each document by how much of the link graph's "random
// surfer" probability mass settles on it. It runs once, at index
// finalization, over the whole link graph — never per query.
//
// Ported exactly from original_source/search/index/src/page_rank.rs: a
// Jacobi-style iteration (every document's new rank is computed from a
// snapshot of the *previous* iteration's ranks, never from values already
// updated this sweep) that repeats until the largest single change is at
// or below pageRankConvergenceThreshold. The teacher has no link graph or
// PageRank of any kind, so there is no teacher file to adapt here —
// this is new code grounded directly in the original Rust, written in
// blaze's existing map-of-uint32 idiom.
// ═══════════════════════════════════════════════════════════════════════════════

const pageRankConvergenceThreshold = 1e-6

// ComputePageRanks runs PageRank to convergence over the link graph
// described by incoming/outgoing adjacency, with damping factor d
// (spec fixes d = 0.85). Documents with no outgoing links ("dangling
// nodes") are treated as if they had exactly one outgoing link when
// distributing their rank, per the original's max(out_links.len(), 1)
// floor.
func ComputePageRanks(incoming, outgoing map[uint32][]uint32, d float64) map[uint32]float64 {
	ranks := make(map[uint32]float64, len(incoming))
	for doc := range incoming {
		ranks[doc] = 0.0
	}

	for {
		if updateAllPageRanks(d, incoming, outgoing, ranks) {
			return ranks
		}
	}
}

// updateAllPageRanks performs one full Jacobi sweep and reports whether
// every document's change this sweep was within the convergence
// threshold.
func updateAllPageRanks(d float64, incoming, outgoing map[uint32][]uint32, ranks map[uint32]float64) bool {
	old := make(map[uint32]float64, len(ranks))
	for doc, r := range ranks {
		old[doc] = r
	}

	converged := true
	for doc := range incoming {
		delta := updatePageRank(doc, d, incoming[doc], old, ranks, outgoing)
		if delta > pageRankConvergenceThreshold {
			converged = false
		}
	}
	return converged
}

// updatePageRank recomputes one document's rank from the snapshot in
// old, writes it into ranks, and returns the absolute change.
func updatePageRank(doc uint32, d float64, inLinks []uint32, old, ranks map[uint32]float64, outgoing map[uint32][]uint32) float64 {
	sum := 0.0
	for _, q := range inLinks {
		outDegree := len(outgoing[q])
		if outDegree < 1 {
			outDegree = 1
		}
		sum += old[q] / float64(outDegree)
	}
	newRank := (1 - d) + d*sum
	delta := newRank - ranks[doc]
	if delta < 0 {
		delta = -delta
	}
	ranks[doc] = newRank
	return delta
}

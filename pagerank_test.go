package blaze

import "testing"

func TestComputePageRanks_Converges(t *testing.T) {
	// A -> B -> C -> A (a simple cycle): by symmetry every node should
	// end up with the same rank.
	outgoing := map[uint32][]uint32{
		1: {2},
		2: {3},
		3: {1},
	}
	incoming := map[uint32][]uint32{
		1: {3},
		2: {1},
		3: {2},
	}

	ranks := ComputePageRanks(incoming, outgoing, 0.85)

	if len(ranks) != 3 {
		t.Fatalf("len(ranks) = %d, want 3", len(ranks))
	}
	r1, r2, r3 := ranks[1], ranks[2], ranks[3]
	const tol = 1e-4
	if abs64(r1-r2) > tol || abs64(r2-r3) > tol {
		t.Errorf("cycle ranks should be equal: %v %v %v", r1, r2, r3)
	}
}

func TestComputePageRanks_DanglingNode(t *testing.T) {
	// Node 2 has no outgoing links at all; updatePageRank must treat it
	// as having exactly one (itself), not divide by zero.
	outgoing := map[uint32][]uint32{
		1: {2},
		2: {},
	}
	incoming := map[uint32][]uint32{
		1: {},
		2: {1},
	}

	ranks := ComputePageRanks(incoming, outgoing, 0.85)
	if ranks[1] <= 0 || ranks[2] <= 0 {
		t.Errorf("expected positive ranks, got %v %v", ranks[1], ranks[2])
	}
}

func TestComputePageRanks_Empty(t *testing.T) {
	ranks := ComputePageRanks(map[uint32][]uint32{}, map[uint32][]uint32{}, 0.85)
	if len(ranks) != 0 {
		t.Errorf("len(ranks) = %d, want 0", len(ranks))
	}
}

func abs64(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

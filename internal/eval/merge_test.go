package eval

import (
	"testing"

	"github.com/onlygraphs/blaze"
)

func p(doc, pos uint32) blaze.Posting { return blaze.Posting{DocumentID: doc, Position: pos} }

func TestUnionMerge(t *testing.T) {
	a := []blaze.Posting{p(1, 0), p(2, 0)}
	b := []blaze.Posting{p(1, 0), p(3, 0)}
	got := unionMerge(a, b)
	// (1,0) appears in both, so it is emitted once (3 entries total).
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3: %v", len(got), got)
	}
}

func TestIntersectionMerge(t *testing.T) {
	a := []blaze.Posting{p(1, 0), p(2, 5)}
	b := []blaze.Posting{p(2, 1), p(3, 0)}
	got := intersectionMerge(a, b)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2: %v", len(got), got)
	}
	for _, pp := range got {
		if pp.DocumentID != 2 {
			t.Errorf("unexpected doc in intersection: %v", pp)
		}
	}
}

func TestDifferenceMerge(t *testing.T) {
	a := []blaze.Posting{p(1, 0), p(2, 0), p(3, 0)}
	b := []blaze.Posting{p(2, 0)}
	got := differenceMerge(a, b)
	want := []blaze.Posting{p(1, 0), p(3, 0)}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDifferenceMerge_SameDocumentRemoved(t *testing.T) {
	// Same document at a *different* position in b still removes a's entry.
	a := []blaze.Posting{p(1, 5)}
	b := []blaze.Posting{p(1, 9)}
	got := differenceMerge(a, b)
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0: %v", len(got), got)
	}
}

func TestDistanceMerge(t *testing.T) {
	a := []blaze.Posting{p(1, 0)}
	b := []blaze.Posting{p(1, 1), p(1, 2), p(1, 10)}
	got := distanceMerge(a, b, 2)
	// l=doc1/pos0 matches both pos1 and pos2 (within distance 2), not pos10.
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3: %v", len(got), got)
	}
}

func TestDistanceMerge_NoMatch(t *testing.T) {
	a := []blaze.Posting{p(1, 0)}
	b := []blaze.Posting{p(2, 0)}
	got := distanceMerge(a, b, 5)
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0: %v", len(got), got)
	}
}

package blaze

import "testing"

func TestPostingNode_Add_TracksTF(t *testing.T) {
	n := NewPostingNode()
	n.Add(1, 0)
	n.Add(1, 1)
	n.Add(2, 0)

	if n.TF[1] != 2 {
		t.Errorf("TF[1] = %d, want 2", n.TF[1])
	}
	if n.TF[2] != 1 {
		t.Errorf("TF[2] = %d, want 1", n.TF[2])
	}
}

func TestPostingNode_Postings_SortedOrder(t *testing.T) {
	n := NewPostingNode()
	n.Add(2, 0)
	n.Add(1, 5)
	n.Add(1, 0)

	want := []Posting{
		{DocumentID: 1, Position: 0},
		{DocumentID: 1, Position: 5},
		{DocumentID: 2, Position: 0},
	}
	got := n.Postings()
	if len(got) != len(want) {
		t.Fatalf("Postings() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Postings()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPostingNode_FirstLast(t *testing.T) {
	n := NewPostingNode()
	n.Add(5, 1)
	n.Add(1, 0)
	n.Add(3, 2)

	first, err := n.First()
	if err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if first.DocumentID != 1 {
		t.Errorf("First().DocumentID = %v, want 1", first.DocumentID)
	}

	last, err := n.Last()
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if last.DocumentID != 5 {
		t.Errorf("Last().DocumentID = %v, want 5", last.DocumentID)
	}
}

func TestPostingNode_NextPrevious(t *testing.T) {
	n := NewPostingNode()
	n.Add(1, 0)
	n.Add(2, 0)
	n.Add(3, 0)

	cur := Position{DocumentID: BOF, Offset: BOF}
	next, err := n.Next(cur)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if next.DocumentID != 1 {
		t.Errorf("Next(BOF).DocumentID = %v, want 1", next.DocumentID)
	}

	next2, err := n.Next(next)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if next2.DocumentID != 2 {
		t.Errorf("second Next().DocumentID = %v, want 2", next2.DocumentID)
	}

	prev, err := n.Previous(next2)
	if err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if prev.DocumentID != 1 {
		t.Errorf("Previous().DocumentID = %v, want 1", prev.DocumentID)
	}
}

func TestPostingNode_First_EmptyList(t *testing.T) {
	n := NewPostingNode()
	_, err := n.First()
	if err != ErrNoPostingList {
		t.Errorf("First() error = %v, want %v", err, ErrNoPostingList)
	}
}

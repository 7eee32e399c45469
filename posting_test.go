package blaze

import "testing"

func TestPosting_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b Posting
		want bool
	}{
		{"earlier doc", Posting{DocumentID: 1, Position: 50}, Posting{DocumentID: 2, Position: 0}, true},
		{"later doc", Posting{DocumentID: 2, Position: 0}, Posting{DocumentID: 1, Position: 50}, false},
		{"same doc, earlier pos", Posting{DocumentID: 1, Position: 1}, Posting{DocumentID: 1, Position: 2}, true},
		{"same doc, later pos", Posting{DocumentID: 1, Position: 2}, Posting{DocumentID: 1, Position: 1}, false},
		{"identical", Posting{DocumentID: 1, Position: 1}, Posting{DocumentID: 1, Position: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortPostings(t *testing.T) {
	postings := []Posting{
		{DocumentID: 3, Position: 0},
		{DocumentID: 1, Position: 5},
		{DocumentID: 1, Position: 2},
		{DocumentID: 2, Position: 0},
	}
	SortPostings(postings)
	want := []Posting{
		{DocumentID: 1, Position: 2},
		{DocumentID: 1, Position: 5},
		{DocumentID: 2, Position: 0},
		{DocumentID: 3, Position: 0},
	}
	for i := range want {
		if postings[i] != want[i] {
			t.Fatalf("postings[%d] = %v, want %v", i, postings[i], want[i])
		}
	}
}

func TestPosRange_Contains(t *testing.T) {
	r := PosRange{Start: 5, End: 10}
	tests := []struct {
		pos  uint32
		want bool
	}{
		{4, false},
		{5, true},
		{9, true},
		{10, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

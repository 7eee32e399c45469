package blaze

import (
	"reflect"
	"testing"
)

func TestVbyteEncoder_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		postings []Posting
	}{
		{"empty", nil},
		{"single", []Posting{{DocumentID: 1, Position: 0}}},
		{"same document", []Posting{
			{DocumentID: 1, Position: 0},
			{DocumentID: 1, Position: 3},
			{DocumentID: 1, Position: 100},
		}},
		{"multiple documents", []Posting{
			{DocumentID: 1, Position: 0},
			{DocumentID: 1, Position: 5},
			{DocumentID: 2, Position: 0},
			{DocumentID: 5, Position: 12},
		}},
		{"large deltas", []Posting{
			{DocumentID: 0, Position: 0},
			{DocumentID: 100000, Position: 999999},
		}},
	}
	var enc VbyteEncoder
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := enc.Encode(tt.postings)
			got := enc.Decode(buf)
			if len(tt.postings) == 0 {
				if len(got) != 0 {
					t.Fatalf("Decode() = %v, want empty", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.postings) {
				t.Fatalf("Decode(Encode(x)) = %v, want %v", got, tt.postings)
			}
		})
	}
}

func TestRawEncoder_RoundTrip(t *testing.T) {
	postings := []Posting{
		{DocumentID: 7, Position: 3},
		{DocumentID: 7, Position: 4},
		{DocumentID: 8, Position: 0},
	}
	var enc RawEncoder
	buf := enc.Encode(postings)
	got := enc.Decode(buf)
	if !reflect.DeepEqual(got, postings) {
		t.Fatalf("Decode(Encode(x)) = %v, want %v", got, postings)
	}
}

func TestEncodeDecodePostingNode(t *testing.T) {
	n := NewPostingNode()
	n.Add(1, 0)
	n.Add(1, 5)
	n.Add(2, 0)
	n.DF = 2

	enc := EncodePostingNode(n, VbyteEncoder{})
	if enc.DF != 2 {
		t.Errorf("DF = %d, want 2", enc.DF)
	}
	if enc.PostingsCount != 3 {
		t.Errorf("PostingsCount = %d, want 3", enc.PostingsCount)
	}

	decoded := DecodePostingNode(enc, VbyteEncoder{})
	if decoded.DF != n.DF {
		t.Errorf("decoded DF = %d, want %d", decoded.DF, n.DF)
	}
	if !reflect.DeepEqual(decoded.Postings(), n.Postings()) {
		t.Errorf("decoded Postings() = %v, want %v", decoded.Postings(), n.Postings())
	}
	if !reflect.DeepEqual(decoded.TF, n.TF) {
		t.Errorf("decoded TF = %v, want %v", decoded.TF, n.TF)
	}
}

func TestPostingNode_Serialize_RoundTrip(t *testing.T) {
	n := NewPostingNode()
	n.Add(10, 1)
	n.Add(10, 2)
	n.Add(20, 0)
	n.DF = 2

	buf := n.Serialize()

	restored := NewPostingNode()
	restored.Deserialize(buf)

	if restored.DF != n.DF {
		t.Errorf("DF = %d, want %d", restored.DF, n.DF)
	}
	if !reflect.DeepEqual(restored.Postings(), n.Postings()) {
		t.Errorf("Postings() = %v, want %v", restored.Postings(), n.Postings())
	}
	if !reflect.DeepEqual(restored.TF, n.TF) {
		t.Errorf("TF = %v, want %v", restored.TF, n.TF)
	}
}

package rank

import (
	"testing"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/parser"
)

func newTestIndex(t *testing.T) *blaze.Index {
	t.Helper()
	idx, err := blaze.NewIndex(1000, t.TempDir())
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}

	n := blaze.NewPostingNode()
	n.Add(1, 0)
	n.Add(1, 3)
	n.Add(2, 0)
	n.DF = 2
	idx.Terms.Insert("go", n)

	idx.Metadata[1] = blaze.DocumentMetaData{Title: "doc1"}
	idx.Metadata[2] = blaze.DocumentMetaData{Title: "doc2"}
	idx.Metadata[3] = blaze.DocumentMetaData{Title: "doc3"}
	idx.TotalDocs = 3
	idx.PageRank[1] = 0.5
	idx.PageRank[2] = 0.2
	idx.PageRank[3] = 0.1

	return idx
}

func TestTFIDFQuery_Freetext(t *testing.T) {
	idx := newTestIndex(t)
	q := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"go"}}

	score1 := TFIDFQuery(1, q, idx)
	score2 := TFIDFQuery(2, q, idx)
	if score1 <= score2 {
		t.Errorf("doc1 (tf=2) should outscore doc2 (tf=1): %v vs %v", score1, score2)
	}

	score3 := TFIDFQuery(3, q, idx)
	if score3 != 0 {
		t.Errorf("doc3 has no occurrences, score should be 0, got %v", score3)
	}
}

func TestTFIDFQuery_Unary_Penalizes(t *testing.T) {
	idx := newTestIndex(t)
	inner := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"go"}}
	q := &parser.Query{Kind: parser.UnaryQuery, UnOp: parser.Not, Sub: inner}

	base := TFIDFQuery(1, inner, idx)
	got := TFIDFQuery(1, q, idx)
	if got != -1000*base {
		t.Errorf("NOT score = %v, want %v", got, -1000*base)
	}
}

func TestTFIDFQuery_Binary_Sums(t *testing.T) {
	idx := newTestIndex(t)
	lhs := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"go"}}
	rhs := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"go"}}
	q := &parser.Query{Kind: parser.BinaryQuery, BinOp: parser.And, Children: [2]*parser.Query{lhs, rhs}}

	got := TFIDFQuery(1, q, idx)
	single := TFIDFQuery(1, lhs, idx)
	if got != 2*single {
		t.Errorf("binary score = %v, want %v (sum of both children)", got, 2*single)
	}
}

func TestTFIDFQuery_DistanceAndWildcard_ScoreZero(t *testing.T) {
	idx := newTestIndex(t)
	dist := &parser.Query{Kind: parser.DistanceQuery, Dist: 1, Lhs: "go", Rhs: "go"}
	wild := &parser.Query{Kind: parser.WildcardQuery, Prefix: "g", Postfix: ""}

	if got := TFIDFQuery(1, dist, idx); got != 0 {
		t.Errorf("DistanceQuery score = %v, want 0", got)
	}
	if got := TFIDFQuery(1, wild, idx); got != 0 {
		t.Errorf("WildcardQuery score = %v, want 0", got)
	}
}

func TestTFIDFQuery_Nil(t *testing.T) {
	idx := newTestIndex(t)
	if got := TFIDFQuery(1, nil, idx); got != 0 {
		t.Errorf("TFIDFQuery(nil) = %v, want 0", got)
	}
}

func TestScoreQuery_DedupesAndBlendsPageRank(t *testing.T) {
	idx := newTestIndex(t)
	q := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"go"}}

	postings := []blaze.Posting{
		{DocumentID: 1, Position: 0},
		{DocumentID: 1, Position: 3},
		{DocumentID: 2, Position: 0},
	}
	got := ScoreQuery(q, idx, postings)
	if len(got) != 2 {
		t.Fatalf("ScoreQuery() returned %d documents, want 2 (deduped)", len(got))
	}
	for _, sd := range got {
		want := TFIDFQuery(sd.DocID, q, idx) + idx.PageRank[sd.DocID]
		if sd.Score != want {
			t.Errorf("doc %d score = %v, want %v", sd.DocID, sd.Score, want)
		}
	}
}

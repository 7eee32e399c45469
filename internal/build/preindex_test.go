package build

import (
	"testing"
	"time"

	"github.com/onlygraphs/blaze"
)

func newTestPreIndex(t *testing.T) *PreIndex {
	t.Helper()
	p, err := NewPreIndex(1000, t.TempDir())
	if err != nil {
		t.Fatalf("NewPreIndex() error = %v", err)
	}
	return p
}

func TestAddDocument_RecordsTitleAndMetadata(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{
		DocID:           1,
		Title:           "Go",
		MainText:        "go is a language",
		LastUpdatedDate: time.Unix(100, 0),
	}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if p.metadata[1].Title != "Go" {
		t.Errorf("metadata[1].Title = %q, want Go", p.metadata[1].Title)
	}
	if _, ok := p.titles.TitleToID("Go"); !ok {
		t.Error("title should be recorded in the title index")
	}
}

func TestAddDocument_DuplicateDocIDErrors(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{DocID: 1, Title: "Go", MainText: "go"}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("first AddDocument() error = %v", err)
	}
	doc2 := &blaze.Document{DocID: 1, Title: "Rust", MainText: "rust"}
	if err := p.AddDocument(doc2); err == nil {
		t.Error("AddDocument() with a reused doc id should error")
	}
}

func TestAddDocument_DFCountsOncePerDocument(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{DocID: 1, Title: "Go", MainText: "lisp lisp lisp"}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	e, ok := p.terms.Entry("lisp")
	if !ok {
		t.Fatal("term \"lisp\" should have been recorded")
	}
	n, err := e.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if n.DF != 1 {
		t.Errorf("DF = %d, want 1 (term appears 3x in one document)", n.DF)
	}
	if n.TF[1] != 3 {
		t.Errorf("TF[1] = %d, want 3", n.TF[1])
	}
}

func TestAddDocument_StructureExtentsOrdering(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{
		DocID:      1,
		Title:      "Go",
		Infoboxes:  []blaze.Infobox{{Type: "language", Text: "concurrent"}},
		MainText:   "go is fast",
		Citations:  []blaze.Citation{{Text: "golang org"}},
		Categories: "programming languages",
	}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	langExtent, ok := p.extent["language"][1]
	if !ok {
		t.Fatal("expected a \"language\" extent")
	}
	if langExtent.Start != 0 {
		t.Errorf("infobox extent should start at position 0, got %d", langExtent.Start)
	}

	catExtent, ok := p.extent["category"][1]
	if !ok {
		t.Fatal("expected a \"category\" extent")
	}
	if catExtent.Start <= langExtent.Start {
		t.Error("category extent should come after the infobox extent in position order")
	}
}

func TestAddStructureElem_ExtendsRatherThanOverwrites(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{
		DocID: 1,
		Title: "Go",
		Infoboxes: []blaze.Infobox{
			{Type: "language", Text: "concurrent"},
			{Type: "language", Text: "compiled"},
		},
	}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	r := p.extent["language"][1]
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0", r.Start)
	}
	if r.End != 2 {
		t.Errorf("End = %d, want 2 (both infoboxes' tokens)", r.End)
	}
}

func TestAddLinks_EmptyAndNonEmpty(t *testing.T) {
	p := newTestPreIndex(t)
	doc1 := &blaze.Document{DocID: 1, Title: "Go", ArticleLinks: ""}
	if err := p.AddDocument(doc1); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if p.links[1] != nil {
		t.Errorf("links[1] = %v, want nil", p.links[1])
	}

	doc2 := &blaze.Document{DocID: 2, Title: "Rust", ArticleLinks: "Go, Systems Programming"}
	if err := p.AddDocument(doc2); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	want := []string{"Go", "Systems Programming"}
	if len(p.links[2]) != len(want) {
		t.Fatalf("links[2] = %v, want %v", p.links[2], want)
	}
	for i := range want {
		if p.links[2][i] != want[i] {
			t.Errorf("links[2][%d] = %q, want %q", i, p.links[2][i], want[i])
		}
	}
}

func TestSnapshot_HandsOffAccumulatedState(t *testing.T) {
	p := newTestPreIndex(t)
	doc := &blaze.Document{DocID: 1, Title: "Go", MainText: "go"}
	if err := p.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	snap := p.Snapshot()
	if snap.Terms == nil || snap.Titles == nil {
		t.Fatal("Snapshot() should carry the accumulated term map and title index")
	}
	if _, ok := snap.Titles.TitleToID("Go"); !ok {
		t.Error("Snapshot() should preserve recorded titles")
	}
}

package preprocess

import (
	"testing"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/parser"
)

func TestProcess_Freetext_Stems(t *testing.T) {
	q := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"Running", "the"}}
	if err := Process(q); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	// "the" is a stopword and should be dropped; "Running" lowercased+stemmed.
	for _, tok := range q.Tokens {
		if tok == "the" || tok == "Running" {
			t.Errorf("unexpected raw token survived: %q", tok)
		}
	}
	if len(q.Tokens) == 0 {
		t.Error("expected at least one surviving token")
	}
}

func TestProcess_Phrase_Stems(t *testing.T) {
	q := &parser.Query{Kind: parser.PhraseQuery, Tokens: []string{"Golang", "Concurrency"}}
	if err := Process(q); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(q.Tokens) != 2 {
		t.Fatalf("Tokens = %v, want 2 entries", q.Tokens)
	}
}

func TestProcess_Distance_StemsToFirstToken(t *testing.T) {
	q := &parser.Query{Kind: parser.DistanceQuery, Dist: 5, Lhs: "Running fast", Rhs: "Jumping high"}
	if err := Process(q); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if q.Lhs == "Running fast" || q.Rhs == "Jumping high" {
		t.Errorf("distance operands not reduced: Lhs=%q Rhs=%q", q.Lhs, q.Rhs)
	}
}

func TestProcess_Distance_EmptyOperandErrors(t *testing.T) {
	q := &parser.Query{Kind: parser.DistanceQuery, Dist: 1, Lhs: "the", Rhs: "a"}
	err := Process(q)
	if !blaze.IsKind(err, blaze.KindInvalidSyntax) {
		t.Errorf("Process() error = %v, want KindInvalidSyntax", err)
	}
}

func TestProcess_Wildcard_LowercasesOnly(t *testing.T) {
	q := &parser.Query{Kind: parser.WildcardQuery, Prefix: "Golan", Postfix: "G"}
	if err := Process(q); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if q.Prefix != "golan" || q.Postfix != "g" {
		t.Errorf("got Prefix=%q Postfix=%q, want golan/g", q.Prefix, q.Postfix)
	}
}

func TestProcess_RecursesThroughWrappers(t *testing.T) {
	inner := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"Running"}}
	structured := &parser.Query{Kind: parser.StructureQuery, Elem: parser.StructureElem{Kind: parser.Title}, Sub: inner}
	if err := Process(structured); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(inner.Tokens) == 0 || inner.Tokens[0] == "Running" {
		t.Error("StructureQuery should process its Sub")
	}

	lhs := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"Running"}}
	rhs := &parser.Query{Kind: parser.FreetextQuery, Tokens: []string{"Jumping"}}
	bin := &parser.Query{Kind: parser.BinaryQuery, BinOp: parser.And, Children: [2]*parser.Query{lhs, rhs}}
	if err := Process(bin); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if lhs.Tokens[0] == "Running" || rhs.Tokens[0] == "Jumping" {
		t.Error("BinaryQuery should process both children")
	}
}

func TestProcess_Nil(t *testing.T) {
	if err := Process(nil); err != nil {
		t.Errorf("Process(nil) error = %v, want nil", err)
	}
}

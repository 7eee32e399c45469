// Package parser implements the query language's abstract syntax tree
// and its grammar (spec Component E), ported from the original nom-based
// grammar in original_source/search/parser/src/{ast,parser}.rs. The
// teacher (Zeeeepa-blaze) has no query language at all — it exposes a
// fluent QueryBuilder API instead — so this package is new, written in
// the teacher's commenting and naming style but with no direct teacher
// file to adapt line-by-line.
package parser

import (
	"fmt"
	"strings"
)

// BinaryOp is a binary combinator. And and Or share one grammar rule and
// one precedence level — see splitTopLevelBinary's doc comment for why that
// matters.
type BinaryOp int

const (
	And BinaryOp = iota
	Or
)

func (op BinaryOp) String() string {
	if op == And {
		return "AND"
	}
	return "OR"
}

// UnaryOp is a unary combinator. NOT is the only one.
type UnaryOp int

const (
	Not UnaryOp = iota
)

func (UnaryOp) String() string { return "NOT" }

// StructureElem names a structural region of a document a StructureQuery
// can restrict a search to.
type StructureElem struct {
	Kind    StructureKind
	Infobox string // populated only when Kind == Infobox
}

type StructureKind int

const (
	Title StructureKind = iota
	Category
	Citation
	Infobox
)

// ParseStructureElem maps a raw #-tag body (matched case-insensitively;
// an infobox name is stored lower-cased) to a StructureElem. Anything that isn't "title", "category" or "citation"
// is treated as an infobox type name — matching the original's
// `From<&str> for StructureElem`, which defaults unmatched input to
// Infobox rather than erroring.
func ParseStructureElem(raw string) StructureElem {
	switch strings.ToLower(raw) {
	case "title":
		return StructureElem{Kind: Title}
	case "category":
		return StructureElem{Kind: Category}
	case "citation":
		return StructureElem{Kind: Citation}
	default:
		return StructureElem{Kind: Infobox, Infobox: strings.ToLower(raw)}
	}
}

func (e StructureElem) String() string {
	switch e.Kind {
	case Title:
		return "TITLE"
	case Category:
		return "CATEGORY"
	case Citation:
		return "CITATION"
	default:
		return e.Infobox
	}
}

// Query is the query AST. Exactly one of the Query* variants is active
// at a time — Kind says which, and only the fields that variant uses are
// populated. This mirrors the original's tagged enum (Rust) as a Go
// tagged struct, since Go has no sum types.
type Query struct {
	Kind QueryKind

	// FreetextQuery / PhraseQuery
	Tokens []string

	// DistanceQuery
	Dist     uint32
	Lhs, Rhs string

	// BinaryQuery
	BinOp    BinaryOp
	Children [2]*Query // [0]=lhs, [1]=rhs

	// UnaryQuery
	UnOp UnaryOp
	Sub  *Query

	// StructureQuery (reuses Sub above)
	Elem StructureElem

	// WildcardQuery
	Prefix, Postfix string

	// RelationQuery (reuses Sub above, nil Sub means "no subquery")
	Root string
	Hops uint32
}

type QueryKind int

const (
	FreetextQuery QueryKind = iota
	PhraseQuery
	DistanceQuery
	BinaryQuery
	UnaryQuery
	StructureQuery
	WildcardQuery
	RelationQuery
)

// String renders the query back to its surface syntax. Query correction
// (spec Component I) compares the String() of a query before and after
// correction to decide whether a "did you mean" suggestion differs from
// the original, the Go analogue of the original's Display-based diff.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	switch q.Kind {
	case FreetextQuery:
		return strings.Join(q.Tokens, " ")
	case PhraseQuery:
		return fmt.Sprintf("\"%s\"", strings.Join(q.Tokens, " "))
	case DistanceQuery:
		return fmt.Sprintf("#DIST,%d,%s,%s", q.Dist, q.Lhs, q.Rhs)
	case BinaryQuery:
		return fmt.Sprintf("%s %s %s", q.Children[0].String(), q.BinOp, q.Children[1].String())
	case UnaryQuery:
		return fmt.Sprintf("%s %s", q.UnOp, q.Sub.String())
	case StructureQuery:
		return fmt.Sprintf("#%s %s", q.Elem, q.Sub.String())
	case WildcardQuery:
		return fmt.Sprintf("%s*%s", q.Prefix, q.Postfix)
	case RelationQuery:
		if q.Sub != nil {
			return fmt.Sprintf("#LinksTo,%s,%d %s", q.Root, q.Hops, q.Sub.String())
		}
		return fmt.Sprintf("#LinksTo,%s,%d", q.Root, q.Hops)
	default:
		return ""
	}
}

// Equal reports structural equality, used by query correction to decide
// whether correction actually changed anything.
func (q *Query) Equal(o *Query) bool {
	if q == nil || o == nil {
		return q == o
	}
	return q.String() == o.String()
}

package blaze

import "time"

// Document is one article as ingested from the relational source,
// carrying every field the builder (Component C) needs to process:
// structural fields (infoboxes, citations, categories) in the exact
// order the builder walks them, plus raw outgoing link titles.
//
// Supplements spec.md's abbreviated document description with the
// infobox/citation sub-structures, grounded in
// original_source/search/index/src/index_structs.rs's Document/
// Infobox/Citation.
type Document struct {
	DocID           uint32
	Title           string
	Categories      string
	MainText        string
	ArticleLinks    string // comma-separated link titles, resolved at finalization
	LastUpdatedDate time.Time
	Infoboxes       []Infobox
	Citations       []Citation
}

type Infobox struct {
	Type string
	Text string
}

type Citation struct {
	Text string
}

// DocumentMetaData is the lightweight per-document record the Index
// keeps resident (title, last-edited date, namespace) — everything a
// query result needs without re-fetching the full document body from
// the relational store.
type DocumentMetaData struct {
	Title           string
	LastUpdatedDate time.Time
	Namespace       int16
}

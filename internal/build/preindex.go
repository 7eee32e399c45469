// Package build implements the index builder (spec Component C): it
// consumes Documents in the field order infoboxes → main text →
// citations → categories, tokenizing with the same analysis pipeline
// query preprocessing uses, and produces a blaze.PreIndexSnapshot ready
// for blaze.FinalizeFrom.
//
// Ported from
// original_source/search/index/src/build/pre_index.rs's PreIndex
// (add_document/add_tokens/add_posting/add_links/add_structure_elem).
// The teacher has no equivalent at all — InvertedIndex.AddDocument
// builds a BM25 index directly with no intermediate builder state — so
// this package is new code grounded in that Rust file, written in the
// teacher's naming and error-handling idiom.
package build

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/termmap"
)

// Structural keys match internal/parser.ParseStructureElem's lower-cased
// tag vocabulary, so a "#CATEGORY" query resolves to the same extent key
// a document's category field was indexed under.
const (
	structureTitle    = "title"
	structureCategory = "category"
	structureCitation = "citation"
)

// PreIndex is the builder's write-only accumulator. It is consumed
// (handed off, not copied) into an Index via Snapshot + blaze.FinalizeFrom
// once ingestion finishes.
type PreIndex struct {
	DumpID uint32

	terms    *termmap.Map[*blaze.PostingNode]
	links    map[uint32][]string
	extent   map[string]map[uint32]blaze.PosRange
	titles   *blaze.TitleIndex
	metadata map[uint32]blaze.DocumentMetaData

	// currDocAppearances tracks which terms have already had their DF
	// bumped for the document currently being added, so a term seen
	// twice in one document only increments DF once.
	currDocAppearances map[string]struct{}
}

// NewPreIndex creates an empty PreIndex whose term map spills entries
// beyond capacity to scratch files under dir whenever CleanCache runs.
func NewPreIndex(capacity uint32, dir string) (*PreIndex, error) {
	terms, err := termmap.New[*blaze.PostingNode](capacity, dir, func() *blaze.PostingNode { return blaze.NewPostingNode() })
	if err != nil {
		return nil, errors.Wrap(err, "build: create term map")
	}
	return &PreIndex{
		terms:              terms,
		links:              make(map[uint32][]string),
		extent:             make(map[string]map[uint32]blaze.PosRange),
		titles:             blaze.NewTitleIndex(),
		metadata:           make(map[uint32]blaze.DocumentMetaData),
		currDocAppearances: make(map[string]struct{}),
	}, nil
}

// CachePopulation reports how many term entries are currently resident in
// memory, used for progress logging during a batch build.
func (p *PreIndex) CachePopulation() uint32 { return p.terms.CachePopulation() }

// CleanCache spills resident term entries beyond the map's configured
// capacity to disk. The SQL builder calls this once per batch.
func (p *PreIndex) CleanCache() uint32 { return p.terms.CleanCache() }

// AddDocument ingests one document: records its title, walks its fields
// in the fixed order infoboxes → main text → citations → categories
// assigning monotonically increasing positions, records its outgoing
// link titles verbatim (resolved later at finalization), and commits
// each term seen in the document's DF exactly once.
func (p *PreIndex) AddDocument(doc *blaze.Document) error {
	if err := p.titles.Insert(doc.DocID, doc.Title); err != nil {
		return err
	}
	p.metadata[doc.DocID] = blaze.DocumentMetaData{
		Title:           doc.Title,
		LastUpdatedDate: doc.LastUpdatedDate,
	}

	wordPos := uint32(0)
	for _, ib := range doc.Infoboxes {
		wordPos = p.addStructureElem(doc.DocID, strings.ToLower(ib.Type), ib.Text, wordPos)
	}

	wordPos = p.addTokens(doc.DocID, doc.MainText, wordPos)

	for _, c := range doc.Citations {
		wordPos = p.addStructureElem(doc.DocID, structureCitation, c.Text, wordPos)
	}

	wordPos = p.addStructureElem(doc.DocID, structureCategory, doc.Categories, wordPos)

	p.addLinks(doc.DocID, doc.ArticleLinks)

	for term := range p.currDocAppearances {
		e := p.terms.EntryOrDefault(term)
		_ = e.Mutate(func(n *blaze.PostingNode) { n.DF++ })
		delete(p.currDocAppearances, term)
	}

	return nil
}

// addTokens analyzes text with the same pipeline query-time
// preprocessing uses (see SPEC_FULL.md's invariant that index-time and
// query-time tokens are comparable), adding one posting per resulting
// token starting at wordPos, and returns the position just past the
// last token added.
func (p *PreIndex) addTokens(docID uint32, text string, wordPos uint32) uint32 {
	for _, token := range blaze.Analyze(text) {
		p.addPosting(token, docID, wordPos)
		wordPos++
	}
	return wordPos
}

func (p *PreIndex) addPosting(token string, docID, wordPos uint32) {
	e := p.terms.EntryOrDefault(token)
	_ = e.Mutate(func(n *blaze.PostingNode) { n.Add(docID, wordPos) })
	p.currDocAppearances[token] = struct{}{}
}

// addLinks stores doc's comma-separated outgoing link titles verbatim;
// resolution to doc ids happens once, at finalization, after every
// document's title has been seen.
func (p *PreIndex) addLinks(docID uint32, articleLinks string) {
	if articleLinks == "" {
		p.links[docID] = nil
		return
	}
	titles := splitAndTrim(articleLinks, ',')
	p.links[docID] = titles
}

func splitAndTrim(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == sep {
			out = append(out, trimSpace(s[start:i]))
			start = i + 1
		}
	}
	return out
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// addStructureElem analyzes text as tokens of structureKey (e.g. "title",
// "category", an infobox type), recording the half-open extent those
// tokens occupy — extending an existing extent for the same key/doc
// rather than overwriting it, matching the original's behaviour for
// documents with several citations or several infoboxes of the same type.
func (p *PreIndex) addStructureElem(docID uint32, structureKey, text string, wordPos uint32) uint32 {
	prevPos := wordPos
	wordPos = p.addTokens(docID, text, wordPos)

	byDoc, ok := p.extent[structureKey]
	if !ok {
		byDoc = make(map[uint32]blaze.PosRange)
		p.extent[structureKey] = byDoc
	}
	if r, exists := byDoc[docID]; exists {
		r.End = wordPos
		byDoc[docID] = r
	} else {
		byDoc[docID] = blaze.PosRange{Start: prevPos, End: wordPos}
	}
	return wordPos
}

// Snapshot hands the builder's accumulated state off to blaze.FinalizeFrom.
// After calling Snapshot the PreIndex must not be used again.
func (p *PreIndex) Snapshot() *blaze.PreIndexSnapshot {
	return &blaze.PreIndexSnapshot{
		Terms:      p.terms,
		LinkTitles: p.links,
		Extents:    p.extent,
		Metadata:   p.metadata,
		Titles:     p.titles,
	}
}

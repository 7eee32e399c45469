// Package facade implements the two public operations (spec Component
// J): Search and Relational. It parses and preprocesses a query,
// evaluates it, ranks or sorts the results, and joins the winning
// document ids with externally stored metadata (title/abstract),
// exactly mirroring
// original_source/search/api/src/endpoints.rs's search/relational
// handlers — minus the HTTP framing, which is out of scope for this
// module.
package facade

import (
	"context"
	"os"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/correct"
	"github.com/onlygraphs/blaze/internal/eval"
	"github.com/onlygraphs/blaze/internal/parser"
	"github.com/onlygraphs/blaze/internal/preprocess"
	"github.com/onlygraphs/blaze/internal/rank"
)

// SortType selects how Search orders its candidate documents, matching
// the original's SortType enum.
type SortType int

const (
	SortRelevance SortType = iota
	SortLastEdited
)

// maxResultsPerPage caps page size regardless of what the caller asks
// for, matching the original's hardcoded `min(q.results_per_page, 150)`.
const maxResultsPerPage = 150

// maxRelationalHops is a ceiling: a relational query asking for more hops
// than this is clamped down to it, matching spec.md's explicit resolution
// of the floor-vs-ceiling ambiguity found across the original's source
// paths ("treat it as a ceiling — min with 5 — this matches the stated
// safety goal"). A request for fewer hops than this is honored as-is. See
// SPEC_FULL.md's Open Questions for the full writeup.
const maxRelationalHops = 5

// MaxQueryLength rejects queries longer than this many bytes before
// parsing, matching the original's 255-character guard.
const MaxQueryLength = 255

// MetadataStore resolves a document id to the title/abstract pair the
// relational store (Postgres "article"/"content" tables in the
// original) holds for it — the Go analogue of the ad-hoc per-result SQL
// query the original issues from inside its HTTP handler.
type MetadataStore interface {
	FetchAbstract(ctx context.Context, docID uint32) (title, abstract string, err error)
	ResolveTitle(ctx context.Context, title string) (docID uint32, err error)
}

// SearchResult is one ranked document returned from Search.
type SearchResult struct {
	DocID    uint32
	Title    string
	Abstract string
	Score    float64
}

// SearchOutput is Search's full response payload.
type SearchOutput struct {
	Documents      []SearchResult
	Domain         string
	SuggestedQuery string
}

// RelationDocument is one document returned from Relational, additionally
// carrying the hop distance at which it was discovered from the root.
type RelationDocument struct {
	DocID    uint32
	Title    string
	Abstract string
	Score    float64
	Hops     uint32
}

// Relation is one directed edge between two documents that both appear
// in a Relational result set.
type Relation struct {
	Source      string
	Destination string
}

// RelationalOutput is Relational's full response payload.
type RelationalOutput struct {
	Documents      []RelationDocument
	Relations      []Relation
	Domain         string
	SuggestedQuery string
}

// Facade is the query-serving entry point: it holds the currently active
// Index behind an atomic pointer so a background build can publish a new
// one (blaze.FinalizeFrom's result) without queries in flight seeing a
// half-built index, per spec.md's "replaced atomically by the next
// successful build" invariant.
type Facade struct {
	idx     atomic.Pointer[blaze.Index]
	Store   MetadataStore
	Correct correct.Config
}

// New creates a Facade serving idx.
func New(idx *blaze.Index, store MetadataStore) *Facade {
	f := &Facade{Store: store, Correct: correct.ConfigFromEnv()}
	f.idx.Store(idx)
	return f
}

// Swap atomically replaces the index a Facade serves queries against.
func (f *Facade) Swap(idx *blaze.Index) { f.idx.Store(idx) }

func domain() string {
	if d := os.Getenv("DOMAIN"); d != "" {
		return d
	}
	return "en"
}

// Search parses queryText, evaluates it against the current index, and
// returns up to size ranked results from page (1-based), sorted either
// by relevance (TF-IDF + PageRank) or by last-updated date.
func (f *Facade) Search(ctx context.Context, queryText string, sort_ SortType, page, size uint32) (*SearchOutput, error) {
	if len(queryText) > MaxQueryLength {
		return nil, blaze.NewError(blaze.KindInvalidSyntax, "query is too long, please shorten it before trying again")
	}
	idx := f.idx.Load()

	q, err := parser.Parse(queryText)
	if err != nil {
		return nil, errors.Wrap(err, "facade: parse query")
	}
	if err := preprocess.Process(q); err != nil {
		return nil, errors.Wrap(err, "facade: preprocess query")
	}

	idx.RLock()
	postings := eval.Execute(q, idx)
	suggestion := correct.CorrectQuery(q, idx, f.Correct)
	idx.RUnlock()

	capped := size
	if capped > maxResultsPerPage {
		capped = maxResultsPerPage
	}
	skip := int(capped) * int(page-1)

	var ordered []rank.ScoredDocument
	switch sort_ {
	case SortRelevance:
		idx.RLock()
		scored := rank.ScoreQuery(q, idx, postings)
		idx.RUnlock()
		sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
		ordered = pageSlice(scored, skip, int(capped))
	case SortLastEdited:
		docs := dedupeDocIDs(postings)
		idx.RLock()
		sort.Slice(docs, func(i, j int) bool {
			return idx.GetLastUpdatedDate(docs[i]).After(idx.GetLastUpdatedDate(docs[j]))
		})
		idx.RUnlock()
		scored := make([]rank.ScoredDocument, len(docs))
		for i, d := range docs {
			scored[i] = rank.ScoredDocument{DocID: d, Score: 1.0}
		}
		ordered = pageSlice(scored, skip, int(capped))
	}

	docs, err := f.fetchAbstracts(ctx, ordered)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Documents: docs, Domain: domain(), SuggestedQuery: suggestion}, nil
}

func pageSlice(docs []rank.ScoredDocument, skip, take int) []rank.ScoredDocument {
	if skip >= len(docs) {
		return nil
	}
	docs = docs[skip:]
	if take < len(docs) {
		docs = docs[:take]
	}
	return docs
}

func dedupeDocIDs(postings []blaze.Posting) []uint32 {
	var out []uint32
	seen := make(map[uint32]struct{})
	for _, p := range postings {
		if _, ok := seen[p.DocumentID]; !ok {
			seen[p.DocumentID] = struct{}{}
			out = append(out, p.DocumentID)
		}
	}
	return out
}

// fetchAbstracts joins scored documents with f.Store, preserving order
// and failing the whole call if any single lookup fails — matching the
// original's FuturesOrdered + "fail on a single internal error" join.
func (f *Facade) fetchAbstracts(ctx context.Context, docs []rank.ScoredDocument) ([]SearchResult, error) {
	out := make([]SearchResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range docs {
		i, d := i, d
		g.Go(func() error {
			title, abstract, err := f.Store.FetchAbstract(gctx, d.DocID)
			if err != nil {
				return errors.Wrapf(err, "facade: fetch abstract for doc %d", d.DocID)
			}
			out[i] = SearchResult{DocID: d.DocID, Title: title, Abstract: abstract, Score: d.Score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Relational evaluates a "#LinksTo,root,hops[,query]" search stretching
// from root: every document within hops of root (optionally further
// restricted by query) is ranked by hop distance, its metadata is
// fetched, and the edges between returned documents are reported
// alongside it.
func (f *Facade) Relational(ctx context.Context, root string, hops uint32, queryText string, maxResults uint32) (*RelationalOutput, error) {
	if len(queryText) > MaxQueryLength {
		return nil, blaze.NewError(blaze.KindInvalidSyntax, "query is too long, please shorten it before trying again")
	}
	if hops > maxRelationalHops {
		hops = maxRelationalHops
	}

	idx := f.idx.Load()
	rootID, ok := idx.TitleToID(root)
	if !ok {
		return nil, blaze.NewError(blaze.KindNotFound, "the root article provided is not a valid root article title")
	}

	var subQuery *parser.Query
	if queryText != "" {
		q, err := parser.Parse(queryText)
		if err != nil {
			return nil, errors.Wrap(err, "facade: parse relational sub-query")
		}
		if err := preprocess.Process(q); err != nil {
			return nil, errors.Wrap(err, "facade: preprocess relational sub-query")
		}
		subQuery = q
	}

	capped := int(maxResults)
	if capped > maxResultsPerPage || capped == 0 {
		capped = maxResultsPerPage
	}

	idx.RLock()
	levels := eval.HopLevels(idx, rootID, hops)
	var matched map[uint32]struct{}
	if subQuery != nil {
		postings := eval.Execute(subQuery, idx)
		matched = make(map[uint32]struct{}, len(postings))
		for _, p := range postings {
			matched[p.DocumentID] = struct{}{}
		}
	}
	idx.RUnlock()

	scored := make([]eval.ScoredRelationDocument, 0, len(levels))
	for doc, hop := range levels {
		if matched != nil {
			if _, ok := matched[doc]; !ok {
				continue
			}
		}
		score := 1.0
		if subQuery != nil {
			idx.RLock()
			score = rank.TFIDFQuery(doc, subQuery, idx)
			idx.RUnlock()
		}
		scored = append(scored, eval.ScoredRelationDocument{DocID: doc, Score: score, Hops: hop})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Hops != scored[j].Hops {
			return scored[i].Hops < scored[j].Hops
		}
		return scored[i].DocID < scored[j].DocID
	})
	if len(scored) > capped {
		scored = scored[:capped]
	}

	docs := make([]RelationDocument, len(scored))
	titles := make(map[uint32]string, len(scored))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range scored {
		i, s := i, s
		g.Go(func() error {
			title, abstract, err := f.Store.FetchAbstract(gctx, s.DocID)
			if err != nil {
				return errors.Wrapf(err, "facade: fetch abstract for doc %d", s.DocID)
			}
			docs[i] = RelationDocument{DocID: s.DocID, Title: title, Abstract: abstract, Score: s.Score, Hops: s.Hops}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, d := range docs {
		titles[d.DocID] = d.Title
	}

	relations := map[Relation]struct{}{}
	idx.RLock()
	for _, s := range scored {
		for _, target := range idx.GetLinks(s.DocID) {
			if dstTitle, ok := titles[target]; ok {
				relations[Relation{Source: titles[s.DocID], Destination: dstTitle}] = struct{}{}
			}
		}
		for _, source := range idx.GetIncomingLinks(s.DocID) {
			if srcTitle, ok := titles[source]; ok {
				relations[Relation{Source: srcTitle, Destination: titles[s.DocID]}] = struct{}{}
			}
		}
	}
	idx.RUnlock()

	out := make([]Relation, 0, len(relations))
	for r := range relations {
		out = append(out, r)
	}

	return &RelationalOutput{Documents: docs, Relations: out, Domain: domain(), SuggestedQuery: ""}, nil
}

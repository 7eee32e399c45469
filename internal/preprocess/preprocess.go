// Package preprocess applies the query preprocessing pass (spec
// Component F): freetext/phrase tokens are run through the shared
// Analyze pipeline (split, lower-case, drop stopwords and tokens shorter
// than 2 bytes, then stem, so stopwords are matched before stemming — the
// same pipeline the builder runs at index time, see
// blaze.AnalyzeWithConfig),
// distance operands are reduced to their first non-empty stemmed token,
// and wildcard prefix/suffix are lowercased only (no stemming, since a
// partial token wouldn't stem meaningfully).
//
// Ported from original_source/search/retrieval/src/search.rs's
// preprocess_query — the teacher has no query AST to preprocess at all,
// so this is new code grounded in that Rust function, written in the
// style of the teacher's own analyzer.go.
package preprocess

import (
	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/parser"
)

// Process rewrites query in place to its preprocessed form, recursing
// into every sub-query. It returns a *blaze.Error (KindInvalidSyntax) if
// a distance query's operand stems to nothing.
func Process(q *parser.Query) error {
	if q == nil {
		return nil
	}
	switch q.Kind {
	case parser.RelationQuery:
		return Process(q.Sub)
	case parser.StructureQuery, parser.UnaryQuery:
		return Process(q.Sub)
	case parser.BinaryQuery:
		if err := Process(q.Children[0]); err != nil {
			return err
		}
		return Process(q.Children[1])
	case parser.PhraseQuery:
		q.Tokens = processTokens(q.Tokens)
		return nil
	case parser.FreetextQuery:
		q.Tokens = processTokens(q.Tokens)
		return nil
	case parser.DistanceQuery:
		lhs := firstToken(q.Lhs)
		if lhs == "" {
			return blaze.NewError(blaze.KindInvalidSyntax, "distance query requires at least one individual word on each side")
		}
		rhs := firstToken(q.Rhs)
		if rhs == "" {
			return blaze.NewError(blaze.KindInvalidSyntax, "distance query requires at least one individual word on each side")
		}
		q.Lhs, q.Rhs = lhs, rhs
		return nil
	case parser.WildcardQuery:
		q.Prefix = blaze.LowercaseOnly(q.Prefix)
		q.Postfix = blaze.LowercaseOnly(q.Postfix)
		return nil
	}
	return nil
}

func processTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, blaze.Analyze(t)...)
	}
	return out
}

func firstToken(s string) string {
	toks := blaze.Analyze(s)
	if len(toks) == 0 {
		return ""
	}
	return toks[0]
}

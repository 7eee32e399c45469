// Package correct implements query spell-correction (spec Component I):
// for each freetext/phrase token whose document frequency falls below a
// threshold, look up nearby terms in the term map by increasing edit
// distance and substitute the closest-length match. Ported from
// original_source/search/retrieval/src/query_correction.rs
// (correct_query/correct_query_sub/mark_tokens_to_correct/
// investigate_query_naive_correction); the teacher has nothing resembling
// this, so it is new code grounded directly in that Rust file.
package correct

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/onlygraphs/blaze"
	"github.com/onlygraphs/blaze/internal/parser"
)

// Defaults for the env-configurable thresholds below, matching the
// original's hardcoded constants.
const (
	DefaultTokenCorrectionThreshold        = 1000
	DefaultTotalPostingCorrectionThreshold = 10000
	DefaultCorrectionTries                 = 2
	DefaultCorrectionKeyDistance           = 1
	DefaultCorrectionKeyDistanceAddPerTry  = 1
)

// Config holds the tunables for CorrectQuery, each overridable by the
// environment variable of the same name as its original Rust constant.
type Config struct {
	TokenCorrectionThreshold        uint32
	TotalPostingCorrectionThreshold uint32
	CorrectionTries                 uint8
	CorrectionKeyDistance           uint8
	CorrectionKeyDistanceAddPerTry  uint8
}

// ConfigFromEnv loads Config from the environment, falling back to the
// package defaults for anything unset.
func ConfigFromEnv() Config {
	return Config{
		TokenCorrectionThreshold:        envUint32("TOKEN_CORRECTION_THRESHOLD", DefaultTokenCorrectionThreshold),
		TotalPostingCorrectionThreshold: envUint32("TOTAL_POSTING_CORRECTION_THRESHOLD", DefaultTotalPostingCorrectionThreshold),
		CorrectionTries:                 envUint8("CORRECTION_TRIES", DefaultCorrectionTries),
		CorrectionKeyDistance:           envUint8("CORRECTION_KEY_DISTANCE", DefaultCorrectionKeyDistance),
		CorrectionKeyDistanceAddPerTry:  envUint8("CORRECTION_KEY_DISTANCE_ADD_PER_TRY", DefaultCorrectionKeyDistanceAddPerTry),
	}
}

func envUint32(key string, def uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return def
}

func envUint8(key string, def uint8) uint8 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			return uint8(n)
		}
	}
	return def
}

// CorrectQuery returns a suggested rewrite of query as surface-syntax
// text, or "" if no token needed correcting. Matching the original's
// correct_query, the suggestion is only produced when the corrected AST
// actually differs from the input.
func CorrectQuery(query *parser.Query, idx *blaze.Index, cfg Config) string {
	corrected := correctSub(query, idx, cfg)
	if corrected.Equal(query) {
		return ""
	}
	return corrected.String()
}

func correctSub(q *parser.Query, idx *blaze.Index, cfg Config) *parser.Query {
	if q == nil {
		return nil
	}
	switch q.Kind {
	case parser.BinaryQuery:
		out := *q
		out.Children = [2]*parser.Query{
			correctSub(q.Children[0], idx, cfg),
			correctSub(q.Children[1], idx, cfg),
		}
		return &out
	case parser.UnaryQuery:
		out := *q
		out.Sub = correctSub(q.Sub, idx, cfg)
		return &out
	case parser.PhraseQuery:
		out := *q
		out.Tokens = markTokensToCorrect(q.Tokens, idx, cfg)
		return &out
	case parser.FreetextQuery:
		out := *q
		out.Tokens = markTokensToCorrect(q.Tokens, idx, cfg)
		return &out
	default: // DistanceQuery, StructureQuery, RelationQuery, WildcardQuery
		return q
	}
}

func markTokensToCorrect(tokens []string, idx *blaze.Index, cfg Config) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		df := idx.GetDF(token)
		slog.Debug("token posting count", slog.String("token", token), slog.Uint64("df", uint64(df)))
		if df < cfg.TokenCorrectionThreshold {
			out = append(out, investigateNaiveCorrection(token, idx, cfg))
		} else {
			out = append(out, token)
		}
	}
	return out
}

// investigateNaiveCorrection tries, up to CorrectionTries times with an
// increasing edit-distance radius, to find terms in idx's term map near
// token; among the candidates found on the first successful try it picks
// the one whose length is closest to token's.
func investigateNaiveCorrection(token string, idx *blaze.Index, cfg Config) string {
	if token == "" {
		return token
	}
	tries := cfg.CorrectionTries
	keyDistance := cfg.CorrectionKeyDistance
	for tries > 0 {
		candidates := idx.Terms.NearestNeighborKeys(token, int(keyDistance))
		if len(candidates) > 0 {
			best := candidates[0]
			bestDiff := lengthDiff(best, token)
			for _, c := range candidates[1:] {
				if d := lengthDiff(c, token); d < bestDiff {
					best, bestDiff = c, d
				}
			}
			return best
		}
		tries--
		keyDistance += cfg.CorrectionKeyDistanceAddPerTry
	}
	return token
}

func lengthDiff(a, b string) int {
	d := len(a) - len(b)
	if d < 0 {
		return -d
	}
	return d
}

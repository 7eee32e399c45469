package build

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/onlygraphs/blaze"
)

// Default tunables, each overridable by the environment variable of the
// same name, matching
// original_source/search/index/src/build/index_builder.rs's
// SqlIndexBuilder.
const (
	DefaultCacheSize           = 500000
	DefaultCachePersistentSize = 100000
	DefaultBatchSize           = 5000
)

// BuildConfig holds the tunables SqlIndexBuilder reads from the
// environment.
type BuildConfig struct {
	CacheDisable    bool
	CacheSize       uint32
	CachePersistent uint32
	BatchSize       uint32
}

// BuildConfigFromEnv loads BuildConfig from CACHE_DISABLE, CACHE_SIZE,
// CACHE_PERSISTENT_SIZE and BATCH_SIZE, falling back to this package's
// defaults. CACHE_DISABLE=true forces an effectively unbounded cache
// (the original's escape hatch for small/debug corpora where spilling to
// disk is pure overhead).
func BuildConfigFromEnv() BuildConfig {
	cfg := BuildConfig{
		CacheDisable:    envBool("CACHE_DISABLE", false),
		CacheSize:       envUint32("CACHE_SIZE", DefaultCacheSize),
		CachePersistent: envUint32("CACHE_PERSISTENT_SIZE", DefaultCachePersistentSize),
		BatchSize:       envUint32("BATCH_SIZE", DefaultBatchSize),
	}
	if cfg.CacheDisable {
		cfg.CacheSize = 10000000
		cfg.CachePersistent = cfg.CacheSize
	}
	return cfg
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envUint32(key string, def uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return def
}

// SqlIndexBuilder builds an Index from a Postgres-backed article dump,
// the same shape the original ingests from (article/content/infoboxes/
// citations tables) — ported from index_builder.rs's SqlIndexBuilder,
// using pgx/v5's pool in place of sqlx, and golang.org/x/sync/errgroup
// in place of manually awaited futures for the three per-batch queries.
type SqlIndexBuilder struct {
	ConnectionString string
	DumpID           uint32
	TmpDir           string
}

type infoboxRow struct {
	Type string
	Body string
}

// BuildIfNeeded builds a fresh Index from the database, or returns nil
// if no dump newer than b.DumpID is available.
func (b *SqlIndexBuilder) BuildIfNeeded(ctx context.Context) (*blaze.Index, error) {
	pool, err := pgxpool.New(ctx, b.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "build: connect")
	}
	defer pool.Close()

	var highestDumpID uint32
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(article.dumpid), 0) FROM article`).Scan(&highestDumpID); err != nil {
		return nil, errors.Wrap(err, "build: query highest dump id")
	}
	if highestDumpID <= b.DumpID {
		return nil, nil
	}

	cfg := BuildConfigFromEnv()
	slog.Info("build config resolved",
		slog.Bool("cache_disable", cfg.CacheDisable),
		slog.Uint64("cache_size", uint64(cfg.CacheSize)),
		slog.Uint64("cache_persistent_size", uint64(cfg.CachePersistent)),
		slog.Uint64("batch_size", uint64(cfg.BatchSize)))

	pre, err := NewPreIndex(cfg.CacheSize, b.TmpDir)
	if err != nil {
		return nil, err
	}
	pre.DumpID = highestDumpID

	var numDocs uint32
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(a.articleid), 0) FROM article as a`).Scan(&numDocs); err != nil {
		return nil, errors.Wrap(err, "build: query doc count")
	}
	numBatches := divCeil(numDocs, cfg.BatchSize)

	var processedDocs uint32
	for batch := uint32(0); batch < numBatches; batch++ {
		start := time.Now()
		startIdx := batch * cfg.BatchSize
		endIdx := (batch+1)*cfg.BatchSize - 1

		docs, infoboxes, citations, err := fetchBatch(ctx, pool, startIdx, endIdx)
		if err != nil {
			return nil, err
		}

		for _, d := range docs {
			processedDocs++
			doc := &blaze.Document{
				DocID:           d.ArticleID,
				Title:           d.Title,
				Categories:      d.Categories,
				MainText:        d.Text,
				ArticleLinks:    d.Links,
				LastUpdatedDate: d.LastUpdated,
			}
			for _, ib := range infoboxes[d.ArticleID] {
				doc.Infoboxes = append(doc.Infoboxes, blaze.Infobox{Type: ib.Type, Text: ib.Body})
			}
			for _, c := range citations[d.ArticleID] {
				doc.Citations = append(doc.Citations, blaze.Citation{Text: c})
			}

			if err := pre.AddDocument(doc); err != nil {
				slog.Error("failed to add document", slog.Uint64("id", uint64(doc.DocID)), slog.String("title", doc.Title), slog.Any("err", err))
			}
		}

		pre.CleanCache()
		pct := float64(processedDocs) / float64(numDocs) * 100
		slog.Info("building pre-index",
			slog.Float64("percent", pct),
			slog.Float64("elapsed_seconds", time.Since(start).Seconds()),
			slog.Uint64("processed_docs", uint64(processedDocs)),
			slog.Uint64("cache_size", uint64(pre.CachePopulation())))
	}

	idx := blaze.FinalizeFrom(pre.Snapshot(), cfg.CachePersistent)
	return idx, nil
}

func divCeil(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

type articleRow struct {
	ArticleID   uint32
	Title       string
	LastUpdated time.Time
	Categories  string
	Links       string
	Text        string
}

// fetchBatch runs the three per-batch queries (articles+content,
// infoboxes, citations) concurrently via errgroup and joins them in
// memory by article id, matching the original's "let them run in
// parallel" comment in index_builder.rs.
func fetchBatch(ctx context.Context, pool *pgxpool.Pool, startIdx, endIdx uint32) ([]articleRow, map[uint32][]infoboxRow, map[uint32][]string, error) {
	var docs []articleRow
	infoboxes := make(map[uint32][]infoboxRow)
	citations := make(map[uint32][]string)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := pool.Query(gctx, `
			SELECT a.articleid, a.title, a.lastupdated, c.categories, c.links, c.text
			FROM article as a
			INNER JOIN content as c
				ON a.articleid = c.articleid
				AND a.articleid BETWEEN $1 AND $2
			ORDER BY a.articleid ASC
		`, startIdx, endIdx)
		if err != nil {
			return errors.Wrap(err, "build: query articles")
		}
		defer rows.Close()
		for rows.Next() {
			var r articleRow
			if err := rows.Scan(&r.ArticleID, &r.Title, &r.LastUpdated, &r.Categories, &r.Links, &r.Text); err != nil {
				return errors.Wrap(err, "build: scan article")
			}
			docs = append(docs, r)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := pool.Query(gctx, `
			SELECT a.articleid, i.infoboxtype, i.body
			FROM article as a
			INNER JOIN infoboxes as i
				ON a.articleid = i.articleid
				AND a.articleid BETWEEN $1 AND $2
			ORDER BY a.articleid ASC
		`, startIdx, endIdx)
		if err != nil {
			return errors.Wrap(err, "build: query infoboxes")
		}
		defer rows.Close()
		for rows.Next() {
			var id uint32
			var ib infoboxRow
			if err := rows.Scan(&id, &ib.Type, &ib.Body); err != nil {
				return errors.Wrap(err, "build: scan infobox")
			}
			infoboxes[id] = append(infoboxes[id], ib)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := pool.Query(gctx, `
			SELECT a.articleid, c.body
			FROM article as a
			INNER JOIN citations as c
				ON a.articleid = c.articleid
				AND a.articleid BETWEEN $1 AND $2
			ORDER BY a.articleid ASC
		`, startIdx, endIdx)
		if err != nil {
			return errors.Wrap(err, "build: query citations")
		}
		defer rows.Close()
		for rows.Next() {
			var id uint32
			var body string
			if err := rows.Scan(&id, &body); err != nil {
				return errors.Wrap(err, "build: scan citation")
			}
			citations[id] = append(citations[id], body)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return docs, infoboxes, citations, nil
}

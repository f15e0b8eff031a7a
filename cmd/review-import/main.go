// Command review-import bulk-loads customer reviews from gzipped JSONL shard
// files into PostgreSQL. Shards are scanned concurrently; a bloom filter over
// sweet/reviewer pairs suppresses duplicates across shards before rows reach
// the database.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/candyhaus/sweetshop/internal/domain/review"
	"github.com/candyhaus/sweetshop/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type reviewLine struct {
	SweetID   int64     `json:"sweetId"`
	Reviewer  string    `json:"reviewer"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func main() {
	var (
		dataDir     string
		pattern     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing review shard files")
	flag.StringVar(&pattern, "pattern", "reviews-*.jsonl.gz", "glob pattern for shard files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, pattern, databaseURL); err != nil {
		slog.Error("review import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("review import completed successfully")
}

func run(ctx context.Context, dataDir, pattern, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, pattern))
	if err != nil {
		return errors.Wrap(err, "glob shard files")
	}
	if len(files) == 0 {
		return errors.Errorf("no shard files match %s in %s", pattern, dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	reviews := repository.NewReviewRepository(pool)

	// Shard readers fan in to a single writer goroutine, which owns the bloom
	// filter and the insert order.
	lines := make(chan reviewLine, 1024)

	g, ctx := errgroup.WithContext(ctx)
	readers, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return writeReviews(ctx, reviews, lines)
	})
	for _, f := range files {
		readers.Go(scanShard(ctx, f, lines))
	}
	g.Go(func() error {
		defer close(lines)
		return readers.Wait()
	})

	return g.Wait()
}

// scanShard streams one gzipped JSONL shard, dropping malformed or invalid
// rows and forwarding the rest.
func scanShard(ctx context.Context, path string, out chan<- reviewLine) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var total, skipped uint64
		scanner := bufio.NewScanner(gz)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			total++
			if total%progressEvery == 0 {
				slog.Info("scan progress", slog.String("shard", path), slog.Uint64("lines", total))
			}

			var line reviewLine
			if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
				skipped++
				continue
			}
			if !validLine(line) {
				skipped++
				continue
			}

			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("shard complete",
			slog.String("shard", path),
			slog.Uint64("lines", total),
			slog.Uint64("skipped", skipped),
		)
		return nil
	}
}

// validLine applies the same rules review submission enforces.
func validLine(l reviewLine) bool {
	if l.SweetID <= 0 {
		return false
	}
	if l.Rating < review.MinRating || l.Rating > review.MaxRating {
		return false
	}
	return strings.TrimSpace(l.Comment) != ""
}

// writeReviews drains the line channel, suppressing sweet/reviewer pairs the
// bloom filter has already seen, and inserts the rest.
func writeReviews(ctx context.Context, reviews *repository.ReviewRepository, lines <-chan reviewLine) error {
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var inserted, duplicates uint64

	for line := range lines {
		key := strconv.FormatInt(line.SweetID, 10) + "|" + line.Reviewer
		if filter.TestAndAddString(key) {
			duplicates++
			continue
		}

		createdAt := line.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		r := &review.Review{
			SweetID:   line.SweetID,
			Reviewer:  line.Reviewer,
			Rating:    line.Rating,
			Comment:   line.Comment,
			CreatedAt: createdAt,
		}
		if err := reviews.Add(ctx, r); err != nil {
			return errors.Wrapf(err, "insert review for sweet %d", line.SweetID)
		}

		inserted++
		if inserted%progressEvery == 0 {
			slog.Info("write progress", slog.Uint64("inserted", inserted))
		}
	}

	slog.Info("write complete",
		slog.Uint64("inserted", inserted),
		slog.Uint64("duplicates", duplicates),
	)
	return nil
}

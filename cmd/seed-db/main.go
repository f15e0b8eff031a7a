// Command seed-db loads the embedded sweet catalog into PostgreSQL.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candyhaus/sweetshop/db"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
	"github.com/candyhaus/sweetshop/internal/memory"
	"github.com/candyhaus/sweetshop/internal/repository"
)

const upsertSweetSQL = `INSERT INTO sweets (id, name, price, category, stock, ingredients)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name        = EXCLUDED.name,
		price       = EXCLUDED.price,
		category    = EXCLUDED.category,
		stock       = EXCLUDED.stock,
		ingredients = EXCLUDED.ingredients`

func main() {
	var (
		databaseURL string
		seedFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedFile, "seed-file", "", "path to sweets JSON file (defaults to the embedded catalog)")
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

	if err := run(ctx, databaseURL, seedFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedFile string) error {
	data := db.SeedSweets
	if seedFile != "" {
		slog.Info("reading seed file", slog.String("path", seedFile))
		var err error
		data, err = os.ReadFile(seedFile)
		if err != nil {
			return errors.Wrap(err, "read seed file")
		}
	}

	sweets, err := memory.DecodeSeed(data)
	if err != nil {
		return errors.Wrap(err, "decode seed")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return upsertSweets(ctx, pool, sweets)
}

func upsertSweets(ctx context.Context, pool *pgxpool.Pool, sweets []sweet.Sweet) error {
	slog.Info("upserting sweets", slog.Int("count", len(sweets)))

	for _, s := range sweets {
		if _, err := pool.Exec(ctx, upsertSweetSQL,
			s.ID, s.Name, s.Price, s.Category, s.Stock, s.Ingredients,
		); err != nil {
			return errors.Wrapf(err, "upsert sweet %d", s.ID)
		}
		slog.Info("upserted sweet", slog.Int64("id", s.ID), slog.String("name", s.Name))
	}

	return nil
}

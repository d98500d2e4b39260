// Command seed loads the starter catalog. Each table is filled only when it
// is empty, so rerunning never duplicates rows.
package main

import (
	"context"
	"os"

	"warehouse-desk/internal/config"
	"warehouse-desk/internal/db"
	"warehouse-desk/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var counterparties = []string{
	"Абил Вешки",
	"АЙК",
	"Ариф",
	"Вектор",
	"Витя камри",
	"ВЛДВ",
	"Вова Снек",
}

var products = []struct {
	code     int
	name     string
	retail   int64
	purchase int64
}{
	{23, "Лосось 6-7", 131150, 130000},
	{40, "Форель радужная 1.8-2.7", 99500, 96018},
	{49, "Навага М", 0, 0},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New("warehouse-desk-seed", cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	seeded, err := seedCounterparties(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("seed counterparties")
	}
	log.Info().Int("inserted", seeded).Msg("counterparties")

	seeded, err = seedProducts(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("seed products")
	}
	log.Info().Int("inserted", seeded).Msg("products")
}

func seedCounterparties(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM counterparties`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for _, name := range counterparties {
		if _, err := pool.Exec(ctx, `INSERT INTO counterparties (name) VALUES ($1)`, name); err != nil {
			return 0, err
		}
	}
	return len(counterparties), nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for _, p := range products {
		if _, err := pool.Exec(ctx,
			`INSERT INTO products (code, name, retail_price_cents, purchase_price_cents) VALUES ($1, $2, $3, $4)`,
			p.code, p.name, p.retail, p.purchase,
		); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

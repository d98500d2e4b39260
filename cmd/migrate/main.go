// Command migrate applies every .sql file under migrations/ in name order.
// The schema files are idempotent (CREATE TABLE IF NOT EXISTS), so rerunning
// is safe.
package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"warehouse-desk/internal/config"
	"warehouse-desk/internal/db"
	"warehouse-desk/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New("warehouse-desk-migrate", cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatal().Err(err).Msg("unable to list migrations")
	}
	if len(files) == 0 {
		log.Fatal().Str("dir", dir).Msg("no migration files found")
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("unable to read migration")
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("migration failed")
		}
		log.Info().Str("file", file).Msg("applied")
	}
	log.Info().Int("count", len(files)).Msg("migrations complete")
}

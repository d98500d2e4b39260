package main

import (
	"bufio"
	"context"
	"os"

	"warehouse-desk/internal/adapters/repl"
	"warehouse-desk/internal/app"
	"warehouse-desk/internal/config"
	"warehouse-desk/internal/core"
	"warehouse-desk/internal/db"
	"warehouse-desk/internal/logger"
	"warehouse-desk/internal/workflow"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet; write the failure by hand.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New("warehouse-desk", cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	catalog := core.NewCatalogService(pool)
	stock := core.NewStockService(pool)
	prices := core.NewPriceService(pool)
	documents := core.NewDocumentService(pool)
	reporting := core.NewReportingService(pool)

	store := workflow.NewMemoryStore()
	workflow.StartPurge(ctx, store)
	engine := workflow.NewEngine(store, catalog, stock, prices, documents)

	svc := app.NewAppService(engine, catalog, stock, documents, reporting)

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

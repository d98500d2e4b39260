package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	webAdapter "warehouse-desk/internal/adapters/web"
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
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New("warehouse-desk-server", cfg.LogLevel, cfg.LogFormat)

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
	handler := webAdapter.NewHandler(svc, log)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

package app

import (
	"context"
	"io"
	"time"

	"warehouse-desk/internal/core"
	"warehouse-desk/internal/workflow"
)

type appService struct {
	engine    *workflow.Engine
	catalog   core.CatalogService
	stock     core.StockService
	documents core.DocumentService
	reporting core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	engine *workflow.Engine,
	catalog core.CatalogService,
	stock core.StockService,
	documents core.DocumentService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		engine:    engine,
		catalog:   catalog,
		stock:     stock,
		documents: documents,
		reporting: reporting,
	}
}

func (s *appService) StartShipment(ctx context.Context, sessionID string, counterpartyID int) (*workflow.Prompt, error) {
	return s.engine.StartShipment(ctx, sessionID, counterpartyID)
}

func (s *appService) StartReceipt(ctx context.Context, sessionID string, counterpartyID int) (*workflow.Prompt, error) {
	return s.engine.StartReceipt(ctx, sessionID, counterpartyID)
}

func (s *appService) ChooseProduct(ctx context.Context, sessionID string, productID int) (*workflow.Prompt, error) {
	return s.engine.ChooseProduct(ctx, sessionID, productID)
}

func (s *appService) SubmitQuantity(ctx context.Context, sessionID, raw string) (*workflow.Prompt, error) {
	return s.engine.SubmitQuantity(ctx, sessionID, raw)
}

func (s *appService) AcceptAvailable(ctx context.Context, sessionID string) (*workflow.Prompt, error) {
	return s.engine.AcceptAvailable(ctx, sessionID)
}

func (s *appService) AcceptSuggestedPrice(ctx context.Context, sessionID string) (*workflow.Prompt, error) {
	return s.engine.AcceptSuggestedPrice(ctx, sessionID)
}

func (s *appService) RequestCustomPrice(ctx context.Context, sessionID string) (*workflow.Prompt, error) {
	return s.engine.RequestCustomPrice(ctx, sessionID)
}

func (s *appService) SubmitCustomPrice(ctx context.Context, sessionID, raw string) (*workflow.Prompt, error) {
	return s.engine.SubmitCustomPrice(ctx, sessionID, raw)
}

func (s *appService) AddAnother(ctx context.Context, sessionID string) (*workflow.Prompt, error) {
	return s.engine.AddAnother(ctx, sessionID)
}

func (s *appService) Finish(ctx context.Context, sessionID string) (*workflow.Prompt, error) {
	return s.engine.Finish(ctx, sessionID)
}

func (s *appService) Cancel(_ context.Context, sessionID string) {
	s.engine.Cancel(sessionID)
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) ListCounterparties(ctx context.Context) (*CounterpartyListResult, error) {
	counterparties, err := s.catalog.ListCounterparties(ctx)
	if err != nil {
		return nil, err
	}
	return &CounterpartyListResult{Counterparties: counterparties}, nil
}

func (s *appService) GetStockLevels(ctx context.Context) (*StockResult, error) {
	levels, err := s.stock.StockLevels(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

func (s *appService) GetDocument(ctx context.Context, id int) (*DocumentResult, error) {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Document: doc}, nil
}

func (s *appService) ExportSalesCSV(ctx context.Context, w io.Writer, from, to time.Time) (int, error) {
	rows, err := s.reporting.SalesRows(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if err := core.WriteSalesCSV(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

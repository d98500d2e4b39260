package core_test

import (
	"context"
	"testing"

	"warehouse-desk/internal/core"
)

func TestPriceService_DefaultsWhenNoHistory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPriceService(pool)
	ctx := context.Background()

	// Shipments default to the retail price.
	quote, err := svc.ResolvePrice(ctx, 1, 1, core.Shipment)
	if err != nil {
		t.Fatalf("resolve shipment price: %v", err)
	}
	if quote.PriceCents != 131150 || !quote.IsDefault {
		t.Errorf("quote = %+v, want default retail 131150", quote)
	}

	// Receipts default to the purchase price.
	quote, err = svc.ResolvePrice(ctx, 2, 1, core.Receipt)
	if err != nil {
		t.Fatalf("resolve receipt price: %v", err)
	}
	if quote.PriceCents != 130000 || !quote.IsDefault {
		t.Errorf("quote = %+v, want default purchase 130000", quote)
	}
}

func TestPriceService_RemembersMostRecentPrice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	insertDocumentWithLine(t, pool, "shipment", 1, 1, 1, "2", 100_00, 0)
	insertDocumentWithLine(t, pool, "shipment", 2, 1, 1, "3", 150_00, 0)

	svc := core.NewPriceService(pool)
	quote, err := svc.ResolvePrice(context.Background(), 1, 1, core.Shipment)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if quote.IsDefault {
		t.Error("expected a remembered price, got default")
	}
	if quote.PriceCents != 150_00 {
		t.Errorf("price = %d, want most recent 15000", quote.PriceCents)
	}
}

func TestPriceService_MemoryIsScopedToPairAndKind(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	insertDocumentWithLine(t, pool, "shipment", 1, 1, 1, "2", 120_00, 0)

	svc := core.NewPriceService(pool)
	ctx := context.Background()

	// Different counterparty: no history, back to default.
	quote, err := svc.ResolvePrice(ctx, 2, 1, core.Shipment)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if !quote.IsDefault {
		t.Errorf("quote = %+v, history of counterparty 1 must not leak to 2", quote)
	}

	// Same pair, other kind: shipment history must not feed receipt quotes.
	quote, err = svc.ResolvePrice(ctx, 1, 1, core.Receipt)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if !quote.IsDefault || quote.PriceCents != 130000 {
		t.Errorf("quote = %+v, want default purchase price", quote)
	}
}

func TestPriceService_CostBasisAveragesShipmentSnapshots(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPriceService(pool)
	ctx := context.Background()

	// Without shipment history the catalog purchase price is the basis.
	basis, err := svc.CostBasis(ctx, 1)
	if err != nil {
		t.Fatalf("cost basis: %v", err)
	}
	if basis != 130000 {
		t.Errorf("basis = %d, want catalog 130000", basis)
	}

	insertDocumentWithLine(t, pool, "shipment", 1, 1, 1, "2", 140_00, 100_00)
	insertDocumentWithLine(t, pool, "shipment", 2, 2, 1, "1", 160_00, 200_00)

	basis, err = svc.CostBasis(ctx, 1)
	if err != nil {
		t.Fatalf("cost basis: %v", err)
	}
	if basis != 150_00 {
		t.Errorf("basis = %d, want average 15000", basis)
	}
}

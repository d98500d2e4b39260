package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PriceService resolves price suggestions from transaction history (price
// memory) and computes the cost basis attributed to shipment lines.
type PriceService interface {
	// ResolvePrice returns the most recently transacted price for the exact
	// (counterparty, product) pair within the given document kind, or the
	// catalog default (retail price for shipments, purchase price for
	// receipts) when no history exists.
	ResolvePrice(ctx context.Context, counterpartyID, productID int, kind DocumentKind) (PriceQuote, error)
	// CostBasis returns the average cost snapshot across the product's own
	// historical shipment lines, or the catalog purchase price when the
	// product has never been shipped.
	CostBasis(ctx context.Context, productID int) (int64, error)
}

type priceService struct {
	pool *pgxpool.Pool
}

func NewPriceService(pool *pgxpool.Pool) PriceService {
	return &priceService{pool: pool}
}

func (s *priceService) ResolvePrice(ctx context.Context, counterpartyID, productID int, kind DocumentKind) (PriceQuote, error) {
	// Recency tie-break: document id desc, then item id desc. Wall-clock
	// timestamps may collide for rows inserted in the same transaction;
	// serial ids are consistent with insertion order.
	var priceCents int64
	err := s.pool.QueryRow(ctx, `
		SELECT di.unit_price_cents
		FROM document_items di
		JOIN documents d ON d.id = di.document_id
		WHERE d.kind = $1 AND d.counterparty_id = $2 AND di.product_id = $3
		ORDER BY d.id DESC, di.id DESC
		LIMIT 1
	`, string(kind), counterpartyID, productID).Scan(&priceCents)
	if err == nil {
		return PriceQuote{PriceCents: priceCents, IsDefault: false}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return PriceQuote{}, fmt.Errorf("failed to look up last price: %w", err)
	}

	var retail, purchase int64
	err = s.pool.QueryRow(ctx,
		"SELECT retail_price_cents, purchase_price_cents FROM products WHERE id = $1", productID,
	).Scan(&retail, &purchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PriceQuote{}, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return PriceQuote{}, fmt.Errorf("failed to fetch default price for product %d: %w", productID, err)
	}

	if kind == Receipt {
		return PriceQuote{PriceCents: purchase, IsDefault: true}, nil
	}
	return PriceQuote{PriceCents: retail, IsDefault: true}, nil
}

func (s *priceService) CostBasis(ctx context.Context, productID int) (int64, error) {
	var avg *decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT AVG(di.cost_basis_cents)
		FROM document_items di
		JOIN documents d ON d.id = di.document_id
		WHERE d.kind = 'shipment' AND di.product_id = $1
	`, productID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average cost basis for product %d: %w", productID, err)
	}
	if avg != nil {
		return avg.IntPart(), nil
	}

	var purchase int64
	err = s.pool.QueryRow(ctx, "SELECT purchase_price_cents FROM products WHERE id = $1", productID).Scan(&purchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return 0, fmt.Errorf("failed to fetch purchase price for product %d: %w", productID, err)
	}
	return purchase, nil
}

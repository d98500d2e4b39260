package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockService computes live stock balances from committed documents:
// balance = Σ receipt quantities − Σ shipment quantities. Pure reads; the
// balance is never materialized, so it is always consistent with the
// document history.
type StockService interface {
	// CurrentStock returns the product's balance at call time. The value is
	// advisory: any other session may change it before the caller commits.
	CurrentStock(ctx context.Context, productID int) (decimal.Decimal, error)
	// StockLevels returns the balance of every product, including zero rows.
	StockLevels(ctx context.Context) ([]StockLevel, error)
}

type stockService struct {
	pool *pgxpool.Pool
}

func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

func (s *stockService) CurrentStock(ctx context.Context, productID int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN d.kind = 'receipt' THEN di.quantity ELSE -di.quantity END), 0)
		FROM document_items di
		JOIN documents d ON d.id = di.document_id
		WHERE di.product_id = $1
	`, productID).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute stock for product %d: %w", productID, err)
	}
	return balance, nil
}

func (s *stockService) StockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.code, p.name,
		       COALESCE(r.total, 0) - COALESCE(sh.total, 0) AS balance
		FROM products p
		LEFT JOIN (
			SELECT di.product_id, SUM(di.quantity) AS total
			FROM document_items di
			JOIN documents d ON d.id = di.document_id
			WHERE d.kind = 'receipt'
			GROUP BY di.product_id
		) r ON r.product_id = p.id
		LEFT JOIN (
			SELECT di.product_id, SUM(di.quantity) AS total
			FROM document_items di
			JOIN documents d ON d.id = di.document_id
			WHERE d.kind = 'shipment'
			GROUP BY di.product_id
		) sh ON sh.product_id = p.id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.ProductID, &sl.ProductCode, &sl.ProductName, &sl.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, rows.Err()
}

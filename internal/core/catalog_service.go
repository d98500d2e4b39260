package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService is the master-data read API consumed by the workflow and
// by transports rendering selection prompts.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	ListCounterparties(ctx context.Context) ([]Counterparty, error)
	GetCounterparty(ctx context.Context, id int) (*Counterparty, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, retail_price_cents, purchase_price_cents
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.RetailPriceCents, &p.PurchasePriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogService) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, retail_price_cents, purchase_price_cents
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Code, &p.Name, &p.RetailPriceCents, &p.PurchasePriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) ListCounterparties(ctx context.Context) ([]Counterparty, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name FROM counterparties ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparties: %w", err)
	}
	defer rows.Close()

	var counterparties []Counterparty
	for rows.Next() {
		var c Counterparty
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty: %w", err)
		}
		counterparties = append(counterparties, c)
	}
	return counterparties, rows.Err()
}

func (s *catalogService) GetCounterparty(ctx context.Context, id int) (*Counterparty, error) {
	var c Counterparty
	err := s.pool.QueryRow(ctx, "SELECT id, name FROM counterparties WHERE id = $1", id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: counterparty %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch counterparty %d: %w", id, err)
	}
	return &c, nil
}

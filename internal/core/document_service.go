package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentService persists finalized drafts and reads committed documents.
type DocumentService interface {
	// Finalize persists the draft as a numbered document in one atomic unit:
	// number allocation, header, line items in draft order, and — for
	// receipts — the purchase-price write-back to the catalog. If any step
	// fails nothing is persisted and the caller may retry.
	Finalize(ctx context.Context, draft DraftDocument) (*Document, error)
	GetDocument(ctx context.Context, id int) (*Document, error)
}

type documentService struct {
	pool *pgxpool.Pool
}

func NewDocumentService(pool *pgxpool.Pool) DocumentService {
	return &documentService{pool: pool}
}

func (s *documentService) Finalize(ctx context.Context, draft DraftDocument) (*Document, error) {
	if len(draft.Lines) == 0 {
		return nil, ErrEmptyDraft
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", ErrConflict, err)
	}
	defer tx.Rollback(ctx)

	var counterpartyName string
	err = tx.QueryRow(ctx, "SELECT name FROM counterparties WHERE id = $1", draft.CounterpartyID).Scan(&counterpartyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: counterparty %d", ErrNotFound, draft.CounterpartyID)
		}
		return nil, fmt.Errorf("%w: failed to fetch counterparty: %w", ErrConflict, err)
	}

	docNumber, err := nextDocNumber(ctx, tx, draft.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConflict, err)
	}

	doc := Document{
		Kind:             draft.Kind,
		DocNumber:        docNumber,
		CounterpartyID:   draft.CounterpartyID,
		CounterpartyName: counterpartyName,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (kind, doc_number, counterparty_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, string(draft.Kind), docNumber, draft.CounterpartyID).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert document: %w", ErrConflict, err)
	}

	for _, line := range draft.Lines {
		item := DocumentItem{
			DocumentID:     doc.ID,
			ProductID:      line.ProductID,
			LineNumber:     line.LineNumber,
			ProductName:    line.ProductName,
			ProductCode:    line.ProductCode,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			CostBasisCents: line.CostBasisCents,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO document_items (document_id, product_id, line_number, product_name, product_code, quantity, unit_price_cents, cost_basis_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, doc.ID, line.ProductID, line.LineNumber, line.ProductName, line.ProductCode,
			line.Quantity, line.UnitPriceCents, line.CostBasisCents).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to insert line %d: %w", ErrConflict, line.LineNumber, err)
		}
		doc.Items = append(doc.Items, item)
	}

	// Receipts refresh the catalog's default purchase price so future price
	// resolution falls back to the latest procurement cost. Applied in line
	// order: the last line mentioning a product wins.
	if draft.Kind == Receipt {
		for _, line := range draft.Lines {
			_, err = tx.Exec(ctx,
				"UPDATE products SET purchase_price_cents = $1 WHERE id = $2",
				line.UnitPriceCents, line.ProductID,
			)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to update purchase price for product %d: %w", ErrConflict, line.ProductID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit document: %w", ErrConflict, err)
	}
	return &doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, id int) (*Document, error) {
	var doc Document
	err := s.pool.QueryRow(ctx, `
		SELECT d.id, d.kind, d.doc_number, d.created_at, d.counterparty_id, c.name
		FROM documents d
		JOIN counterparties c ON c.id = d.counterparty_id
		WHERE d.id = $1
	`, id).Scan(&doc.ID, &doc.Kind, &doc.DocNumber, &doc.CreatedAt, &doc.CounterpartyID, &doc.CounterpartyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch document %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, product_id, line_number, product_name, product_code, quantity, unit_price_cents, cost_basis_cents
		FROM document_items
		WHERE document_id = $1
		ORDER BY line_number
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query document items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item DocumentItem
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.ProductID, &item.LineNumber,
			&item.ProductName, &item.ProductCode, &item.Quantity, &item.UnitPriceCents, &item.CostBasisCents); err != nil {
			return nil, fmt.Errorf("failed to scan document item: %w", err)
		}
		doc.Items = append(doc.Items, item)
	}
	return &doc, rows.Err()
}

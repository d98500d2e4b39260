package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportingService produces the render-input shapes consumed by external
// CSV/PDF generation: period sales rows grouped the way the printed export
// orders them.
type ReportingService interface {
	// SalesRows returns every shipment line committed within [from, to) —
	// the upper bound is exclusive so callers can pass midnight of the day
	// after the period — ordered by (created_at, doc_number, line_number).
	SalesRows(ctx context.Context, from, to time.Time) ([]SalesRow, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) SalesRows(ctx context.Context, from, to time.Time) ([]SalesRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.created_at, d.doc_number, c.name,
		       di.line_number, di.product_name, di.product_code,
		       di.quantity, di.unit_price_cents, di.cost_basis_cents
		FROM documents d
		JOIN document_items di ON di.document_id = d.id
		JOIN counterparties c ON c.id = d.counterparty_id
		WHERE d.kind = 'shipment' AND d.created_at >= $1 AND d.created_at < $2
		ORDER BY d.created_at, d.doc_number, di.line_number
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales rows: %w", err)
	}
	defer rows.Close()

	var result []SalesRow
	for rows.Next() {
		var r SalesRow
		if err := rows.Scan(&r.CreatedAt, &r.DocNumber, &r.CounterpartyName,
			&r.LineNumber, &r.ProductName, &r.ProductCode,
			&r.Quantity, &r.SalePriceCents, &r.CostBasisCents); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// WriteSalesCSV renders sales rows as CSV with a header row. Money columns
// are decimal strings ("1311.50"), quantities keep three fractional digits.
func WriteSalesCSV(w io.Writer, rows []SalesRow) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "doc_number", "counterparty", "line", "code", "product", "quantity", "price", "total", "profit"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.CreatedAt.Format("02.01.2006"),
			strconv.Itoa(r.DocNumber),
			r.CounterpartyName,
			strconv.Itoa(r.LineNumber),
			strconv.Itoa(r.ProductCode),
			r.ProductName,
			r.Quantity.StringFixed(3),
			FormatCents(r.SalePriceCents),
			FormatCents(r.TotalSaleCents()),
			FormatCents(r.ProfitCents()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatCents renders integer minor units as a decimal amount ("-12.05").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

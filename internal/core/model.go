package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes outbound shipments (decrease stock) from
// inbound receipts (increase stock).
type DocumentKind string

const (
	Shipment DocumentKind = "shipment"
	Receipt  DocumentKind = "receipt"
)

type Product struct {
	ID                 int    `json:"id"`
	Code               int    `json:"code"`
	Name               string `json:"name"`
	RetailPriceCents   int64  `json:"retail_price_cents"`
	PurchasePriceCents int64  `json:"purchase_price_cents"`
}

type Counterparty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DraftLine is one accumulated position of an in-progress document. Product
// name and code are snapshots taken when the line is appended, not live
// joins. UnitPriceCents is the sale price on shipment lines and the purchase
// price on receipt lines.
type DraftLine struct {
	LineNumber     int             `json:"line_number"`
	ProductID      int             `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductCode    int             `json:"product_code"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	// CostBasisCents is populated on shipment lines only: the cost figure
	// attributed to the line for profit computation, distinct from the sale
	// price.
	CostBasisCents int64 `json:"cost_basis_cents"`
}

// DraftDocument is the finalizer input: a fully accumulated draft ready to
// be persisted as a numbered document.
type DraftDocument struct {
	Kind           DocumentKind
	CounterpartyID int
	Lines          []DraftLine
}

// Document is a committed shipment or receipt. DocNumber is unique and
// monotonically increasing per kind; it is never reused even if the document
// is later deleted. Items are immutable once committed.
type Document struct {
	ID               int            `json:"id"`
	Kind             DocumentKind   `json:"kind"`
	DocNumber        int            `json:"doc_number"`
	CreatedAt        time.Time      `json:"created_at"`
	CounterpartyID   int            `json:"counterparty_id"`
	CounterpartyName string         `json:"counterparty_name"`
	Items            []DocumentItem `json:"items"`
}

type DocumentItem struct {
	ID             int             `json:"id"`
	DocumentID     int             `json:"document_id"`
	ProductID      int             `json:"product_id"`
	LineNumber     int             `json:"line_number"`
	ProductName    string          `json:"product_name"`
	ProductCode    int             `json:"product_code"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	CostBasisCents int64           `json:"cost_basis_cents"`
}

// TotalCents is quantity × unit price, truncated to whole cents.
func (i DocumentItem) TotalCents() int64 {
	return i.Quantity.Mul(decimal.NewFromInt(i.UnitPriceCents)).IntPart()
}

// TotalCostCents is quantity × cost basis, truncated to whole cents.
func (i DocumentItem) TotalCostCents() int64 {
	return i.Quantity.Mul(decimal.NewFromInt(i.CostBasisCents)).IntPart()
}

// TotalCents sums the line totals: sale total for shipments, purchase total
// for receipts.
func (d *Document) TotalCents() int64 {
	var total int64
	for _, item := range d.Items {
		total += item.TotalCents()
	}
	return total
}

// TotalCostCents sums the line cost-basis totals. Zero for receipts.
func (d *Document) TotalCostCents() int64 {
	var total int64
	for _, item := range d.Items {
		total += item.TotalCostCents()
	}
	return total
}

// ProfitCents is sale total minus cost total. Meaningful for shipments only.
func (d *Document) ProfitCents() int64 {
	return d.TotalCents() - d.TotalCostCents()
}

// PriceQuote is the resolved price suggestion for a counterparty/product
// pair.
type PriceQuote struct {
	PriceCents int64 `json:"price_cents"`
	// IsDefault reports that no prior transaction existed for the pair and
	// the catalog retail (shipment) or purchase (receipt) price was used.
	IsDefault bool `json:"is_default"`
}

// StockLevel is one row of the current-balance report.
type StockLevel struct {
	ProductID   int             `json:"product_id"`
	ProductCode int             `json:"product_code"`
	ProductName string          `json:"product_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// SalesRow is one shipment line in the period sales export, the shape
// consumed by external CSV/PDF generators.
type SalesRow struct {
	CreatedAt        time.Time       `json:"created_at"`
	DocNumber        int             `json:"doc_number"`
	CounterpartyName string          `json:"counterparty_name"`
	LineNumber       int             `json:"line_number"`
	ProductName      string          `json:"product_name"`
	ProductCode      int             `json:"product_code"`
	Quantity         decimal.Decimal `json:"quantity"`
	SalePriceCents   int64           `json:"sale_price_cents"`
	CostBasisCents   int64           `json:"cost_basis_cents"`
}

// TotalSaleCents is quantity × sale price, truncated to whole cents.
func (r SalesRow) TotalSaleCents() int64 {
	return r.Quantity.Mul(decimal.NewFromInt(r.SalePriceCents)).IntPart()
}

// ProfitCents is the line's sale total minus its cost total.
func (r SalesRow) ProfitCents() int64 {
	return r.TotalSaleCents() - r.Quantity.Mul(decimal.NewFromInt(r.CostBasisCents)).IntPart()
}

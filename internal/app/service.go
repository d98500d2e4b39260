package app

import (
	"context"
	"io"
	"time"

	"warehouse-desk/internal/workflow"
)

// ApplicationService is the single interface all transport adapters (REPL,
// HTTP) call. It decouples presentation from business logic; implementations
// contain no display logic of any kind.
//
// Workflow methods accept exactly one user input each and return the prompt
// descriptor for the next step. Steps of one session are strictly
// sequential; the transport guarantees at most one in-flight input per
// session id.
type ApplicationService interface {
	// StartShipment opens a shipment draft for the chosen counterparty.
	StartShipment(ctx context.Context, sessionID string, counterpartyID int) (*workflow.Prompt, error)

	// StartReceipt opens a receipt draft for the chosen supplier.
	StartReceipt(ctx context.Context, sessionID string, counterpartyID int) (*workflow.Prompt, error)

	// ChooseProduct records a product selection.
	ChooseProduct(ctx context.Context, sessionID string, productID int) (*workflow.Prompt, error)

	// SubmitQuantity parses a quantity input, running the stock check for
	// shipment drafts.
	SubmitQuantity(ctx context.Context, sessionID, raw string) (*workflow.Prompt, error)

	// AcceptAvailable caps an over-stock request at the available balance.
	AcceptAvailable(ctx context.Context, sessionID string) (*workflow.Prompt, error)

	// AcceptSuggestedPrice appends the pending line at the resolved price.
	AcceptSuggestedPrice(ctx context.Context, sessionID string) (*workflow.Prompt, error)

	// RequestCustomPrice switches the session to manual price entry.
	RequestCustomPrice(ctx context.Context, sessionID string) (*workflow.Prompt, error)

	// SubmitCustomPrice parses a manually entered price and appends the line.
	SubmitCustomPrice(ctx context.Context, sessionID, raw string) (*workflow.Prompt, error)

	// AddAnother loops back to product selection.
	AddAnother(ctx context.Context, sessionID string) (*workflow.Prompt, error)

	// Finish commits the draft atomically and returns the numbered document.
	Finish(ctx context.Context, sessionID string) (*workflow.Prompt, error)

	// Cancel discards the session's draft. Idempotent.
	Cancel(ctx context.Context, sessionID string)

	// ListProducts returns the product catalog ordered by name.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// ListCounterparties returns all counterparties ordered by name.
	ListCounterparties(ctx context.Context) (*CounterpartyListResult, error)

	// GetStockLevels returns the current balance of every product.
	GetStockLevels(ctx context.Context) (*StockResult, error)

	// GetDocument returns a committed document for rendering.
	GetDocument(ctx context.Context, id int) (*DocumentResult, error)

	// ExportSalesCSV writes the period's shipment lines as CSV and reports
	// how many rows were written.
	ExportSalesCSV(ctx context.Context, w io.Writer, from, to time.Time) (int, error)
}

package workflow

import (
	"context"
	"fmt"
	"math"
	"strings"

	"warehouse-desk/internal/core"

	"github.com/shopspring/decimal"
)

// Catalog is the master-data read API the engine validates selections
// against.
type Catalog interface {
	ListProducts(ctx context.Context) ([]core.Product, error)
	GetProduct(ctx context.Context, id int) (*core.Product, error)
	GetCounterparty(ctx context.Context, id int) (*core.Counterparty, error)
}

// StockReader reports a product's live balance. The value is advisory, not a
// reservation: another session may consume the same stock before this one
// finalizes.
type StockReader interface {
	CurrentStock(ctx context.Context, productID int) (decimal.Decimal, error)
}

// PriceSource resolves price suggestions and shipment cost bases.
type PriceSource interface {
	ResolvePrice(ctx context.Context, counterpartyID, productID int, kind core.DocumentKind) (core.PriceQuote, error)
	CostBasis(ctx context.Context, productID int) (int64, error)
}

// DocumentSink persists a finished draft atomically and returns the
// committed document.
type DocumentSink interface {
	Finalize(ctx context.Context, draft core.DraftDocument) (*core.Document, error)
}

// Engine drives the document-creation step sequence. Each exported method
// handles one user input: it validates against the catalog and stock ledger,
// mutates the session's draft, and returns the prompt for the next step.
// Malformed input returns ErrValidation without transitioning or touching
// the draft; the transport re-prompts the same step.
type Engine struct {
	store   DraftStore
	catalog Catalog
	stock   StockReader
	prices  PriceSource
	sink    DocumentSink
}

func NewEngine(store DraftStore, catalog Catalog, stock StockReader, prices PriceSource, sink DocumentSink) *Engine {
	return &Engine{store: store, catalog: catalog, stock: stock, prices: prices, sink: sink}
}

// StartShipment opens a shipment draft for the session with the chosen
// counterparty and asks for the first product.
func (e *Engine) StartShipment(ctx context.Context, sessionID string, counterpartyID int) (*Prompt, error) {
	return e.start(ctx, sessionID, core.Shipment, counterpartyID)
}

// StartReceipt opens a receipt draft for the session with the chosen
// supplier and asks for the first product.
func (e *Engine) StartReceipt(ctx context.Context, sessionID string, counterpartyID int) (*Prompt, error) {
	return e.start(ctx, sessionID, core.Receipt, counterpartyID)
}

func (e *Engine) start(ctx context.Context, sessionID string, kind core.DocumentKind, counterpartyID int) (*Prompt, error) {
	cp, err := e.catalog.GetCounterparty(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}

	d := &Draft{
		SessionID:        sessionID,
		Kind:             kind,
		Step:             StepProduct,
		CounterpartyID:   cp.ID,
		CounterpartyName: cp.Name,
	}
	if err := e.store.Create(d); err != nil {
		return nil, err
	}
	return e.productPrompt(ctx, d)
}

// ChooseProduct records the product selection and asks for a quantity.
func (e *Engine) ChooseProduct(ctx context.Context, sessionID string, productID int) (*Prompt, error) {
	d, err := e.require(sessionID, StepProduct)
	if err != nil {
		return nil, err
	}

	p, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	d.PendingProductID = p.ID
	d.Step = StepQuantity
	if err := e.store.Save(d); err != nil {
		return nil, err
	}
	return &Prompt{Step: StepQuantity, Kind: d.Kind}, nil
}

// SubmitQuantity parses the quantity input. For shipments the requested
// amount is checked against the live balance; exceeding it moves the session
// to StepStockInsufficient, from where the user may either submit a smaller
// quantity (this method again) or accept the capped amount via
// AcceptAvailable. Receipts have no ceiling.
func (e *Engine) SubmitQuantity(ctx context.Context, sessionID, raw string) (*Prompt, error) {
	d, err := e.require(sessionID, StepQuantity, StepStockInsufficient)
	if err != nil {
		return nil, err
	}

	qty, err := parseQuantity(raw)
	if err != nil {
		return nil, err
	}

	if d.Kind == core.Shipment {
		available, err := e.stock.CurrentStock(ctx, d.PendingProductID)
		if err != nil {
			return nil, err
		}
		if qty.GreaterThan(available) {
			d.PendingQuantity = qty
			d.PendingAvailable = available
			d.Step = StepStockInsufficient
			if err := e.store.Save(d); err != nil {
				return nil, err
			}
			return &Prompt{Step: StepStockInsufficient, Kind: d.Kind, Requested: qty, Available: available}, nil
		}
	}

	d.PendingQuantity = qty
	return e.toPriceStep(ctx, d)
}

// AcceptAvailable resolves an insufficient-stock stop by capping the
// requested quantity at the available balance. Only valid when something is
// actually available.
func (e *Engine) AcceptAvailable(ctx context.Context, sessionID string) (*Prompt, error) {
	d, err := e.require(sessionID, StepStockInsufficient)
	if err != nil {
		return nil, err
	}
	if !d.PendingAvailable.IsPositive() {
		return nil, fmt.Errorf("%w: nothing in stock to accept", core.ErrValidation)
	}

	d.PendingQuantity = d.PendingAvailable
	return e.toPriceStep(ctx, d)
}

func (e *Engine) toPriceStep(ctx context.Context, d *Draft) (*Prompt, error) {
	quote, err := e.prices.ResolvePrice(ctx, d.CounterpartyID, d.PendingProductID, d.Kind)
	if err != nil {
		return nil, err
	}

	d.PendingQuote = &quote
	d.Step = StepPrice
	if err := e.store.Save(d); err != nil {
		return nil, err
	}
	return &Prompt{Step: StepPrice, Kind: d.Kind, Quote: &quote}, nil
}

// AcceptSuggestedPrice appends the pending line at the resolved price and
// asks whether to add another product.
func (e *Engine) AcceptSuggestedPrice(ctx context.Context, sessionID string) (*Prompt, error) {
	d, err := e.require(sessionID, StepPrice)
	if err != nil {
		return nil, err
	}
	return e.appendLine(ctx, d, d.PendingQuote.PriceCents)
}

// RequestCustomPrice switches the session to manual price entry.
func (e *Engine) RequestCustomPrice(ctx context.Context, sessionID string) (*Prompt, error) {
	d, err := e.require(sessionID, StepPrice)
	if err != nil {
		return nil, err
	}

	d.Step = StepNewPrice
	if err := e.store.Save(d); err != nil {
		return nil, err
	}
	return &Prompt{Step: StepNewPrice, Kind: d.Kind}, nil
}

// SubmitCustomPrice parses a manually entered price (rubles, converted to
// cents by truncation) and appends the pending line with it.
func (e *Engine) SubmitCustomPrice(ctx context.Context, sessionID, raw string) (*Prompt, error) {
	d, err := e.require(sessionID, StepNewPrice)
	if err != nil {
		return nil, err
	}

	cents, err := parsePrice(raw)
	if err != nil {
		return nil, err
	}
	return e.appendLine(ctx, d, cents)
}

func (e *Engine) appendLine(ctx context.Context, d *Draft, priceCents int64) (*Prompt, error) {
	p, err := e.catalog.GetProduct(ctx, d.PendingProductID)
	if err != nil {
		return nil, err
	}

	var costBasis int64
	if d.Kind == core.Shipment {
		costBasis, err = e.prices.CostBasis(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}

	line := core.DraftLine{
		ProductID:      p.ID,
		ProductName:    p.Name,
		ProductCode:    p.Code,
		Quantity:       d.PendingQuantity,
		UnitPriceCents: priceCents,
		CostBasisCents: costBasis,
	}
	if err := d.AddLine(line); err != nil {
		return nil, err
	}

	d.PendingProductID = 0
	d.PendingQuantity = decimal.Zero
	d.PendingAvailable = decimal.Zero
	d.PendingQuote = nil
	d.Step = StepAddMore
	if err := e.store.Save(d); err != nil {
		return nil, err
	}
	return &Prompt{Step: StepAddMore, Kind: d.Kind, LineCount: len(d.Lines)}, nil
}

// AddAnother loops back to product selection, keeping everything already
// appended.
func (e *Engine) AddAnother(ctx context.Context, sessionID string) (*Prompt, error) {
	d, err := e.require(sessionID, StepAddMore)
	if err != nil {
		return nil, err
	}

	d.Step = StepProduct
	if err := e.store.Save(d); err != nil {
		return nil, err
	}
	return e.productPrompt(ctx, d)
}

// Finish commits the draft as a numbered document. On failure the draft is
// kept intact so the user can retry; on success it is destroyed and the
// committed document returned for rendering.
func (e *Engine) Finish(ctx context.Context, sessionID string) (*Prompt, error) {
	d, err := e.require(sessionID, StepAddMore)
	if err != nil {
		return nil, err
	}
	if len(d.Lines) == 0 {
		return nil, core.ErrEmptyDraft
	}

	doc, err := e.sink.Finalize(ctx, core.DraftDocument{
		Kind:           d.Kind,
		CounterpartyID: d.CounterpartyID,
		Lines:          d.Lines,
	})
	if err != nil {
		return nil, err
	}

	e.store.Delete(sessionID)
	return &Prompt{Kind: d.Kind, Done: true, Document: doc}, nil
}

// Cancel discards the session's draft, whatever state it is in. Idempotent
// and free of persisted side effects.
func (e *Engine) Cancel(sessionID string) {
	e.store.Delete(sessionID)
}

// Lines returns a copy of the draft's accumulated lines in insertion order.
func (e *Engine) Lines(sessionID string) ([]core.DraftLine, error) {
	d, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	lines := make([]core.DraftLine, len(d.Lines))
	copy(lines, d.Lines)
	return lines, nil
}

func (e *Engine) productPrompt(ctx context.Context, d *Draft) (*Prompt, error) {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &Prompt{Step: StepProduct, Kind: d.Kind, Products: products, LineCount: len(d.Lines)}, nil
}

// require fetches the session's draft and checks it is at one of the given
// steps.
func (e *Engine) require(sessionID string, steps ...Step) (*Draft, error) {
	d, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		if d.Step == step {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: session %s is at step %s", core.ErrInvalidState, sessionID, d.Step)
}

// parseQuantity accepts a positive decimal with up to three fractional
// digits of resolution. Commas are accepted as decimal separators.
func parseQuantity(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	qty, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: quantity %q is not a number", core.ErrValidation, raw)
	}
	qty = qty.Truncate(3)
	if !qty.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive, got %q", core.ErrValidation, raw)
	}
	return qty, nil
}

// maxPriceCents bounds manual price entry. IntPart silently wraps beyond
// int64, so the magnitude must be checked while still a decimal.
var maxPriceCents = decimal.NewFromInt(math.MaxInt64)

// parsePrice accepts a non-negative amount in rubles and converts it to
// cents by multiplying by 100 and truncating.
func parsePrice(raw string) (int64, error) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", core.ErrValidation, raw)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: price cannot be negative, got %q", core.ErrValidation, raw)
	}
	cents := amount.Mul(decimal.NewFromInt(100)).Truncate(0)
	if cents.GreaterThan(maxPriceCents) {
		return 0, fmt.Errorf("%w: price %q is too large", core.ErrValidation, raw)
	}
	return cents.IntPart(), nil
}

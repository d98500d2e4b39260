package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"warehouse-desk/internal/core"

	"github.com/shopspring/decimal"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	products       []core.Product
	counterparties []core.Counterparty
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]core.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d", core.ErrNotFound, id)
}

func (f *fakeCatalog) GetCounterparty(ctx context.Context, id int) (*core.Counterparty, error) {
	for _, c := range f.counterparties {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: counterparty %d", core.ErrNotFound, id)
}

type fakeStock struct {
	levels map[int]decimal.Decimal
}

func (f *fakeStock) CurrentStock(ctx context.Context, productID int) (decimal.Decimal, error) {
	return f.levels[productID], nil
}

type fakePrices struct {
	quotes map[int]core.PriceQuote
	costs  map[int]int64
}

func (f *fakePrices) ResolvePrice(ctx context.Context, counterpartyID, productID int, kind core.DocumentKind) (core.PriceQuote, error) {
	if q, ok := f.quotes[productID]; ok {
		return q, nil
	}
	return core.PriceQuote{PriceCents: 0, IsDefault: true}, nil
}

func (f *fakePrices) CostBasis(ctx context.Context, productID int) (int64, error) {
	return f.costs[productID], nil
}

type fakeSink struct {
	finalized []core.DraftDocument
	err       error
}

func (f *fakeSink) Finalize(ctx context.Context, draft core.DraftDocument) (*core.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.finalized = append(f.finalized, draft)
	items := make([]core.DocumentItem, len(draft.Lines))
	for i, l := range draft.Lines {
		items[i] = core.DocumentItem{
			LineNumber:     l.LineNumber,
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			ProductCode:    l.ProductCode,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			CostBasisCents: l.CostBasisCents,
		}
	}
	return &core.Document{
		ID:             len(f.finalized),
		Kind:           draft.Kind,
		DocNumber:      len(f.finalized),
		CreatedAt:      time.Now(),
		CounterpartyID: draft.CounterpartyID,
		Items:          items,
	}, nil
}

func newTestEngine() (*Engine, DraftStore, *fakeSink) {
	catalog := &fakeCatalog{
		products: []core.Product{
			{ID: 1, Code: 23, Name: "Salmon 6-7", RetailPriceCents: 131150, PurchasePriceCents: 130000},
			{ID: 2, Code: 40, Name: "Trout 1.8-2.7", RetailPriceCents: 99500, PurchasePriceCents: 96018},
		},
		counterparties: []core.Counterparty{
			{ID: 10, Name: "Vector"},
			{ID: 11, Name: "Arif"},
		},
	}
	stock := &fakeStock{levels: map[int]decimal.Decimal{
		1: decimal.RequireFromString("10"),
		2: decimal.Zero,
	}}
	prices := &fakePrices{
		quotes: map[int]core.PriceQuote{
			1: {PriceCents: 125000, IsDefault: false},
			2: {PriceCents: 99500, IsDefault: true},
		},
		costs: map[int]int64{1: 120000, 2: 96018},
	}
	sink := &fakeSink{}
	store := NewMemoryStore()
	return NewEngine(store, catalog, stock, prices, sink), store, sink
}

// ── Start ─────────────────────────────────────────────────────────────────────

func TestStart_UnknownCounterparty(t *testing.T) {
	e, _, _ := newTestEngine()
	_, err := e.StartShipment(context.Background(), "s1", 999)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStart_SecondDraftSameSessionRejected(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := e.StartReceipt(ctx, "s1", 10)
	if !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for second draft, got %v", err)
	}
}

func TestStart_ListsProducts(t *testing.T) {
	e, _, _ := newTestEngine()
	prompt, err := e.StartShipment(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if prompt.Step != StepProduct {
		t.Errorf("step = %s, want %s", prompt.Step, StepProduct)
	}
	if len(prompt.Products) != 2 {
		t.Errorf("got %d products, want 2", len(prompt.Products))
	}
}

// ── Happy path ────────────────────────────────────────────────────────────────

func TestShipment_HappyPath(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}

	prompt, err := e.SubmitQuantity(ctx, "s1", "2,5")
	if err != nil {
		t.Fatalf("submit quantity: %v", err)
	}
	if prompt.Step != StepPrice {
		t.Fatalf("step = %s, want %s", prompt.Step, StepPrice)
	}
	if prompt.Quote.PriceCents != 125000 || prompt.Quote.IsDefault {
		t.Errorf("quote = %+v, want remembered 125000", prompt.Quote)
	}

	prompt, err = e.AcceptSuggestedPrice(ctx, "s1")
	if err != nil {
		t.Fatalf("accept price: %v", err)
	}
	if prompt.Step != StepAddMore || prompt.LineCount != 1 {
		t.Fatalf("prompt = %+v, want add-more with 1 line", prompt)
	}

	prompt, err = e.Finish(ctx, "s1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !prompt.Done || prompt.Document == nil {
		t.Fatalf("prompt = %+v, want done with document", prompt)
	}

	if len(sink.finalized) != 1 {
		t.Fatalf("finalized %d drafts, want 1", len(sink.finalized))
	}
	draft := sink.finalized[0]
	if draft.Kind != core.Shipment || draft.CounterpartyID != 10 {
		t.Errorf("draft header = %+v", draft)
	}
	line := draft.Lines[0]
	if !line.Quantity.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("quantity = %s, want 2.5 (comma accepted as separator)", line.Quantity)
	}
	if line.UnitPriceCents != 125000 {
		t.Errorf("price = %d, want 125000", line.UnitPriceCents)
	}
	if line.CostBasisCents != 120000 {
		t.Errorf("cost basis = %d, want 120000", line.CostBasisCents)
	}

	// Session is gone after commit.
	if _, err := e.Lines("s1"); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("expected draft destroyed after finish, got %v", err)
	}
}

func TestReceipt_NoStockCeilingAndNoCostBasis(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartReceipt(ctx, "r1", 11); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "r1", 2); err != nil {
		t.Fatalf("choose product: %v", err)
	}

	// Product 2 has zero stock; receipts must not care.
	prompt, err := e.SubmitQuantity(ctx, "r1", "500")
	if err != nil {
		t.Fatalf("submit quantity: %v", err)
	}
	if prompt.Step != StepPrice {
		t.Fatalf("step = %s, want %s (no stock check on receipts)", prompt.Step, StepPrice)
	}

	if _, err := e.AcceptSuggestedPrice(ctx, "r1"); err != nil {
		t.Fatalf("accept price: %v", err)
	}
	if _, err := e.Finish(ctx, "r1"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	line := sink.finalized[0].Lines[0]
	if line.CostBasisCents != 0 {
		t.Errorf("receipt line cost basis = %d, want 0", line.CostBasisCents)
	}
}

// ── Quantity validation ───────────────────────────────────────────────────────

func TestSubmitQuantity_RejectsMalformedInput(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}

	for _, raw := range []string{"abc", "-5", "0", "", "1.2.3"} {
		_, err := e.SubmitQuantity(ctx, "s1", raw)
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("quantity %q: expected ErrValidation, got %v", raw, err)
		}
	}

	// Bad input must not transition the step.
	d, err := store.Get("s1")
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if d.Step != StepQuantity {
		t.Errorf("step after bad inputs = %s, want %s", d.Step, StepQuantity)
	}
}

func TestSubmitQuantity_TruncatesToThreeDecimals(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "1.23456"); err != nil {
		t.Fatalf("submit quantity: %v", err)
	}

	d, _ := store.Get("s1")
	if !d.PendingQuantity.Equal(decimal.RequireFromString("1.234")) {
		t.Errorf("quantity = %s, want 1.234 (truncated, not rounded)", d.PendingQuantity)
	}
}

// ── Insufficient stock ────────────────────────────────────────────────────────

func TestShipment_InsufficientStock(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}

	prompt, err := e.SubmitQuantity(ctx, "s1", "15")
	if err != nil {
		t.Fatalf("submit quantity: %v", err)
	}
	if prompt.Step != StepStockInsufficient {
		t.Fatalf("step = %s, want %s", prompt.Step, StepStockInsufficient)
	}
	if !prompt.Requested.Equal(decimal.RequireFromString("15")) ||
		!prompt.Available.Equal(decimal.RequireFromString("10")) {
		t.Errorf("requested/available = %s/%s, want 15/10", prompt.Requested, prompt.Available)
	}

	// Accepting caps at the available balance.
	prompt, err = e.AcceptAvailable(ctx, "s1")
	if err != nil {
		t.Fatalf("accept available: %v", err)
	}
	if prompt.Step != StepPrice {
		t.Fatalf("step = %s, want %s", prompt.Step, StepPrice)
	}

	if _, err := e.AcceptSuggestedPrice(ctx, "s1"); err != nil {
		t.Fatalf("accept price: %v", err)
	}
	if _, err := e.Finish(ctx, "s1"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	line := sink.finalized[0].Lines[0]
	if !line.Quantity.Equal(decimal.RequireFromString("10")) {
		t.Errorf("quantity = %s, want capped 10", line.Quantity)
	}
}

func TestShipment_InsufficientStockRetrySmallerQuantity(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "15"); err != nil {
		t.Fatalf("first quantity: %v", err)
	}

	// Re-entering a quantity at the insufficient-stock stop is allowed.
	prompt, err := e.SubmitQuantity(ctx, "s1", "7")
	if err != nil {
		t.Fatalf("second quantity: %v", err)
	}
	if prompt.Step != StepPrice {
		t.Fatalf("step = %s, want %s", prompt.Step, StepPrice)
	}

	d, _ := store.Get("s1")
	if !d.PendingQuantity.Equal(decimal.RequireFromString("7")) {
		t.Errorf("quantity = %s, want 7", d.PendingQuantity)
	}
}

func TestAcceptAvailable_NothingInStock(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 2); err != nil { // product 2: zero stock
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "3"); err != nil {
		t.Fatalf("submit quantity: %v", err)
	}

	_, err := e.AcceptAvailable(ctx, "s1")
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation when nothing is available, got %v", err)
	}
}

// ── Price entry ───────────────────────────────────────────────────────────────

func TestSubmitCustomPrice(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "1"); err != nil {
		t.Fatalf("submit quantity: %v", err)
	}

	prompt, err := e.RequestCustomPrice(ctx, "s1")
	if err != nil {
		t.Fatalf("request custom price: %v", err)
	}
	if prompt.Step != StepNewPrice {
		t.Fatalf("step = %s, want %s", prompt.Step, StepNewPrice)
	}

	// Rubles convert to cents by truncation: 10.999 → 1099.
	if _, err := e.SubmitCustomPrice(ctx, "s1", "10.999"); err != nil {
		t.Fatalf("submit custom price: %v", err)
	}
	if _, err := e.Finish(ctx, "s1"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	line := sink.finalized[0].Lines[0]
	if line.UnitPriceCents != 1099 {
		t.Errorf("price = %d cents, want 1099", line.UnitPriceCents)
	}
}

func TestSubmitCustomPrice_RejectsNegative(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "1"); err != nil {
		t.Fatalf("submit quantity: %v", err)
	}
	if _, err := e.RequestCustomPrice(ctx, "s1"); err != nil {
		t.Fatalf("request custom price: %v", err)
	}

	_, err := e.SubmitCustomPrice(ctx, "s1", "-10")
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	d, _ := store.Get("s1")
	if d.Step != StepNewPrice {
		t.Errorf("step after bad price = %s, want %s", d.Step, StepNewPrice)
	}
}

func TestSubmitCustomPrice_ZeroAllowed(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartReceipt(ctx, "r1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "r1", 2); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "r1", "1"); err != nil {
		t.Fatalf("submit quantity: %v", err)
	}
	if _, err := e.RequestCustomPrice(ctx, "r1"); err != nil {
		t.Fatalf("request custom price: %v", err)
	}
	if _, err := e.SubmitCustomPrice(ctx, "r1", "0"); err != nil {
		t.Fatalf("zero price should be accepted: %v", err)
	}
	if _, err := e.Finish(ctx, "r1"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got := sink.finalized[0].Lines[0].UnitPriceCents; got != 0 {
		t.Errorf("price = %d, want 0", got)
	}
}

// ── Step enforcement ──────────────────────────────────────────────────────────

func TestOperations_RejectWrongStep(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Session is at StepProduct: everything except ChooseProduct must refuse.
	ops := map[string]func() error{
		"SubmitQuantity":       func() error { _, err := e.SubmitQuantity(ctx, "s1", "1"); return err },
		"AcceptAvailable":      func() error { _, err := e.AcceptAvailable(ctx, "s1"); return err },
		"AcceptSuggestedPrice": func() error { _, err := e.AcceptSuggestedPrice(ctx, "s1"); return err },
		"RequestCustomPrice":   func() error { _, err := e.RequestCustomPrice(ctx, "s1"); return err },
		"SubmitCustomPrice":    func() error { _, err := e.SubmitCustomPrice(ctx, "s1", "5"); return err },
		"AddAnother":           func() error { _, err := e.AddAnother(ctx, "s1"); return err },
		"Finish":               func() error { _, err := e.Finish(ctx, "s1"); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, core.ErrInvalidState) {
			t.Errorf("%s at StepProduct: expected ErrInvalidState, got %v", name, err)
		}
	}
}

func TestOperations_NoActiveDraft(t *testing.T) {
	e, _, _ := newTestEngine()
	_, err := e.ChooseProduct(context.Background(), "ghost", 1)
	if !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for unknown session, got %v", err)
	}
}

// ── Multi-line accumulation ───────────────────────────────────────────────────

func TestAddAnother_AccumulatesLinesInOrder(t *testing.T) {
	e, _, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartReceipt(ctx, "r1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}

	addLine := func(productID int) {
		t.Helper()
		if _, err := e.ChooseProduct(ctx, "r1", productID); err != nil {
			t.Fatalf("choose product %d: %v", productID, err)
		}
		if _, err := e.SubmitQuantity(ctx, "r1", "1"); err != nil {
			t.Fatalf("quantity: %v", err)
		}
		if _, err := e.AcceptSuggestedPrice(ctx, "r1"); err != nil {
			t.Fatalf("price: %v", err)
		}
	}

	addLine(1)
	prompt, err := e.AddAnother(ctx, "r1")
	if err != nil {
		t.Fatalf("add another: %v", err)
	}
	if prompt.Step != StepProduct {
		t.Fatalf("step = %s, want %s", prompt.Step, StepProduct)
	}
	addLine(2)

	lines, err := e.Lines("r1")
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].LineNumber != 1 || lines[1].LineNumber != 2 {
		t.Errorf("line numbers = %d,%d, want 1,2", lines[0].LineNumber, lines[1].LineNumber)
	}
	if lines[0].ProductID != 1 || lines[1].ProductID != 2 {
		t.Errorf("products = %d,%d, want 1,2", lines[0].ProductID, lines[1].ProductID)
	}

	if _, err := e.Finish(ctx, "r1"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(sink.finalized[0].Lines) != 2 {
		t.Errorf("finalized %d lines, want 2", len(sink.finalized[0].Lines))
	}
}

// ── Finish failure handling ───────────────────────────────────────────────────

func TestFinish_EmptyDraft(t *testing.T) {
	e, store, _ := newTestEngine()

	// An empty confirmed draft cannot be produced through the normal flow;
	// craft the state directly.
	d := &Draft{SessionID: "s1", Kind: core.Shipment, Step: StepAddMore, CounterpartyID: 10}
	if err := store.Create(d); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	_, err := e.Finish(context.Background(), "s1")
	if !errors.Is(err, core.ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
	// Draft survives the refusal.
	if _, err := store.Get("s1"); err != nil {
		t.Errorf("draft should remain after empty-draft refusal: %v", err)
	}
}

func TestFinish_SinkFailureKeepsDraftForRetry(t *testing.T) {
	e, store, sink := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ChooseProduct(ctx, "s1", 1); err != nil {
		t.Fatalf("choose product: %v", err)
	}
	if _, err := e.SubmitQuantity(ctx, "s1", "1"); err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if _, err := e.AcceptSuggestedPrice(ctx, "s1"); err != nil {
		t.Fatalf("price: %v", err)
	}

	sink.err = fmt.Errorf("%w: storage unavailable", core.ErrConflict)
	if _, err := e.Finish(ctx, "s1"); err == nil {
		t.Fatal("expected finish to fail")
	}
	if _, err := store.Get("s1"); err != nil {
		t.Fatalf("draft must survive a failed commit: %v", err)
	}

	// Retry after the sink recovers.
	sink.err = nil
	prompt, err := e.Finish(ctx, "s1")
	if err != nil {
		t.Fatalf("retry finish: %v", err)
	}
	if !prompt.Done {
		t.Error("retry should complete the flow")
	}
}

// ── Session isolation and cancel ──────────────────────────────────────────────

func TestSessions_AreIsolated(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "a", 10); err != nil {
		t.Fatalf("start a: %v", err)
	}
	if _, err := e.StartReceipt(ctx, "b", 11); err != nil {
		t.Fatalf("start b: %v", err)
	}

	if _, err := e.ChooseProduct(ctx, "a", 1); err != nil {
		t.Fatalf("choose in a: %v", err)
	}

	// Session b is still waiting for a product; a's progress must not leak.
	_, err := e.SubmitQuantity(ctx, "b", "1")
	if !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("session b should still be at product selection, got %v", err)
	}
}

func TestCancel_DiscardsAndIsIdempotent(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.StartShipment(ctx, "s1", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Cancel("s1")
	if _, err := store.Get("s1"); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("expected draft gone after cancel, got %v", err)
	}
	// Cancelling again must not blow up.
	e.Cancel("s1")
	e.Cancel("never-existed")

	// A fresh draft can start immediately after cancel.
	if _, err := e.StartReceipt(ctx, "s1", 10); err != nil {
		t.Errorf("restart after cancel: %v", err)
	}
}

// ── Parsing ───────────────────────────────────────────────────────────────────

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "2,5", want: "2.5"},
		{raw: " 3 ", want: "3"},
		{raw: "0.001", want: "0.001"},
		{raw: "1.23456", want: "1.234"},
		{raw: "0.0009", wantErr: true}, // truncates to zero
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseQuantity(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("parseQuantity(%q): expected ErrValidation, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseQuantity(%q): %v", tt.raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseQuantity(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "1311.50", want: 131150},
		{raw: "1311,50", want: 131150},
		{raw: "10.999", want: 1099}, // truncated, not rounded
		{raw: "0", want: 0},
		{raw: "92233720368547758.07", want: 9223372036854775807}, // exactly MaxInt64 cents
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		// Cents value exceeds int64; must be rejected, never wrapped.
		{raw: "200000000000000000", wantErr: true},
		{raw: "92233720368547758.08", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("parsePrice(%q): expected ErrValidation, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

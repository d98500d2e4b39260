package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warehouse-desk/internal/core"

	"github.com/shopspring/decimal"
)

// Step identifies where a session's draft is in the document-creation
// sequence. Counterparty selection happens before a draft exists (the start
// operations already carry the chosen counterparty), so it has no step here.
type Step string

const (
	StepProduct           Step = "waiting_product"
	StepQuantity          Step = "waiting_quantity"
	StepStockInsufficient Step = "stock_insufficient"
	StepPrice             Step = "waiting_price"
	StepNewPrice          Step = "waiting_new_price"
	StepAddMore           Step = "confirming_add_more"
)

// Draft is the typed per-session conversation state: the document being
// assembled plus the transient fields the current step needs. It is owned by
// exactly one session and destroyed on finalize or cancel.
type Draft struct {
	SessionID        string
	Kind             core.DocumentKind
	Step             Step
	CounterpartyID   int
	CounterpartyName string

	// Pending fields are only meaningful mid-step and are cleared when the
	// line they describe is appended.
	PendingProductID int
	PendingQuantity  decimal.Decimal
	PendingAvailable decimal.Decimal
	PendingQuote     *core.PriceQuote

	Lines []core.DraftLine

	UpdatedAt time.Time
}

// AddLine validates and appends a line. Line numbers are assigned once, in
// insertion order, and are never reassigned afterwards — renumbering would
// break the printed-document audit trail.
func (d *Draft) AddLine(line core.DraftLine) error {
	if !line.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive, got %s", core.ErrValidation, line.Quantity)
	}
	line.LineNumber = len(d.Lines) + 1
	d.Lines = append(d.Lines, line)
	return nil
}

// DraftStore keeps in-progress drafts addressable by session id. Steps of
// one session never run concurrently (the transport guarantees one in-flight
// input per session), but different sessions hit the store concurrently.
type DraftStore interface {
	// Create registers a new draft. Fails with ErrInvalidState if the
	// session already has one; callers must cancel explicitly first.
	Create(d *Draft) error
	// Get returns the session's draft, or ErrInvalidState if none is active.
	Get(sessionID string) (*Draft, error)
	// Save persists mutations made to a draft obtained from Get.
	Save(d *Draft) error
	// Delete discards the session's draft. Idempotent, never touches
	// persisted documents.
	Delete(sessionID string)
}

// draftTTL is how long an untouched draft survives before the purge loop
// evicts it. Generous: a draft only dies if the user walked away for a day.
const draftTTL = 24 * time.Hour

// memoryStore is a thread-safe in-memory DraftStore. In-progress drafts are
// lost on process restart; the interface exists so an external store can be
// substituted without touching the engine.
type memoryStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewMemoryStore() DraftStore {
	return &memoryStore{drafts: make(map[string]*Draft)}
}

func (s *memoryStore) Create(d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.drafts[d.SessionID]; exists {
		return fmt.Errorf("%w: session %s already has an active draft", core.ErrInvalidState, d.SessionID)
	}
	d.UpdatedAt = time.Now()
	s.drafts[d.SessionID] = d
	return nil
}

func (s *memoryStore) Get(sessionID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: no active draft for session %s", core.ErrInvalidState, sessionID)
	}
	return d, nil
}

func (s *memoryStore) Save(d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.UpdatedAt = time.Now()
	s.drafts[d.SessionID] = d
	return nil
}

func (s *memoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

// StartPurge evicts drafts idle longer than draftTTL every 30 minutes until
// ctx is cancelled.
func StartPurge(ctx context.Context, store DraftStore) {
	ms, ok := store.(*memoryStore)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ms.mu.Lock()
				for id, d := range ms.drafts {
					if time.Since(d.UpdatedAt) > draftTTL {
						delete(ms.drafts, id)
					}
				}
				ms.mu.Unlock()
			}
		}
	}()
}

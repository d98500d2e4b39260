package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"warehouse-desk/internal/app"
	"warehouse-desk/internal/workflow"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log zerolog.Logger
}

// NewHandler creates and wires the chi router with all routes. Each workflow
// session is addressed by a caller-chosen session id; the service rejects
// inputs that do not match the session's current step.
func NewHandler(svc app.ApplicationService, log zerolog.Logger) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// Catalog and reports
	r.Get("/api/products", h.listProducts)
	r.Get("/api/counterparties", h.listCounterparties)
	r.Get("/api/stock", h.stockLevels)
	r.Get("/api/documents/{id}", h.getDocument)
	r.Get("/api/export/sales", h.exportSales)

	// Document-creation workflow
	r.Route("/api/sessions/{sid}", func(r chi.Router) {
		r.Post("/shipment", h.startShipment)
		r.Post("/receipt", h.startReceipt)
		r.Post("/product", h.chooseProduct)
		r.Post("/quantity", h.submitQuantity)
		r.Post("/quantity/accept-available", h.acceptAvailable)
		r.Post("/price/accept", h.acceptSuggestedPrice)
		r.Post("/price/enter", h.requestCustomPrice)
		r.Post("/price", h.submitCustomPrice)
		r.Post("/add-more", h.addAnother)
		r.Post("/finish", h.finish)
		r.Post("/cancel", h.cancel)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sid")
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. Returns HTTP 413 when the body exceeds the limit set
// by RequestBodyLimit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// writePrompt is the shared success path of every workflow endpoint.
func writePrompt(w http.ResponseWriter, r *http.Request, prompt *workflow.Prompt, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, prompt)
}

// ── Catalog and reports ───────────────────────────────────────────────────────

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) listCounterparties(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCounterparties(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) stockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid document id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// exportSales handles GET /api/export/sales?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds are inclusive days; when absent the period is the current
// calendar month.
func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, "invalid 'from' date, want YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		from = parsed
		to = from.AddDate(0, 1, 0)
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, "invalid 'to' date, want YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		writeError(w, r, "'to' precedes 'from'", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="sales_%s_%s.csv"`, from.Format("2006-01-02"), to.Format("2006-01-02")))
	if _, err := h.svc.ExportSalesCSV(r.Context(), w, from, to); err != nil {
		// Headers may already be out; log instead of rewriting the response.
		h.log.Error().Err(err).Msg("sales export failed mid-stream")
	}
}

// ── Workflow endpoints ────────────────────────────────────────────────────────

type startRequest struct {
	CounterpartyID int `json:"counterparty_id"`
}

type productRequest struct {
	ProductID int `json:"product_id"`
}

// valueRequest carries raw user text for quantity and price inputs. Parsing
// stays in the workflow layer so the REPL and the API validate identically.
type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) startShipment(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prompt, err := h.svc.StartShipment(r.Context(), sessionID(r), req.CounterpartyID)
	writePrompt(w, r, prompt, err)
}

func (h *Handler) startReceipt(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prompt, err := h.svc.StartReceipt(r.Context(), sessionID(r), req.CounterpartyID)
	writePrompt(w, r, prompt, err)
}

func (h *Handler) chooseProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prompt, err := h.svc.ChooseProduct(r.Context(), sessionID(r), req.ProductID)
	writePrompt(w, r, prompt, err)
}

func (h *Handler) submitQuantity(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prompt, err := h.svc.SubmitQuantity(r.Context(), sessionID(r), req.Value)
	writePrompt(w, r, prompt, err)
}

func (h *Handler) acceptAvailable(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.svc.AcceptAvailable(r.Context(), sessionID(r))
	writePrompt(w, r, prompt, err)
}

func (h *Handler) acceptSuggestedPrice(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.svc.AcceptSuggestedPrice(r.Context(), sessionID(r))
	writePrompt(w, r, prompt, err)
}

func (h *Handler) requestCustomPrice(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.svc.RequestCustomPrice(r.Context(), sessionID(r))
	writePrompt(w, r, prompt, err)
}

func (h *Handler) submitCustomPrice(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prompt, err := h.svc.SubmitCustomPrice(r.Context(), sessionID(r), req.Value)
	writePrompt(w, r, prompt, err)
}

func (h *Handler) addAnother(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.svc.AddAnother(r.Context(), sessionID(r))
	writePrompt(w, r, prompt, err)
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.svc.Finish(r.Context(), sessionID(r))
	writePrompt(w, r, prompt, err)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.svc.Cancel(r.Context(), sessionID(r))
	type response struct {
		Cancelled bool `json:"cancelled"`
	}
	writeJSON(w, response{Cancelled: true})
}

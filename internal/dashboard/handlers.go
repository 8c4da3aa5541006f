package dashboard

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"PairWatch/internal/calculator"
	"PairWatch/internal/collector"
	"PairWatch/internal/model"
)

// Reporter produces a pair report; *collector.Collector satisfies it.
type Reporter interface {
	Collect(ctx context.Context, pair model.Pair, lookbackDays int) (*model.PairReport, error)
}

// Defaults are used when a request leaves a parameter out.
type Defaults struct {
	Title        string
	Caption      string
	Pair         model.Pair
	LookbackDays int
}

const (
	minDays = 2
	maxDays = 3650
)

// Handlers serves the dashboard page and its JSON API.
type Handlers struct {
	reporter Reporter
	defaults Defaults
	index    *template.Template
	errPage  *template.Template
}

// NewHandlers parses the embedded templates.
func NewHandlers(reporter Reporter, defaults Defaults) (*Handlers, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	errPage, err := template.ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, err
	}
	return &Handlers{reporter: reporter, defaults: defaults, index: index, errPage: errPage}, nil
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

// params reads a, b and days from the query, falling back to defaults.
func (h *Handlers) params(r *http.Request) (model.Pair, int, error) {
	q := r.URL.Query()
	pair := h.defaults.Pair
	if v := strings.TrimSpace(q.Get("a")); v != "" {
		pair.A = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(q.Get("b")); v != "" {
		pair.B = strings.ToUpper(v)
	}
	if pair.A == pair.B {
		return pair, 0, &requestError{"a and b must differ"}
	}
	days := h.defaults.LookbackDays
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minDays || n > maxDays {
			return pair, 0, &requestError{"days must be an integer between 2 and 3650"}
		}
		days = n
	}
	return pair, days, nil
}

// view resolves the request into a rendered view, or an HTTP status and error.
func (h *Handlers) view(r *http.Request) (*View, model.Pair, int, error) {
	pair, days, err := h.params(r)
	if err != nil {
		return nil, pair, http.StatusBadRequest, err
	}
	rep, err := h.reporter.Collect(r.Context(), pair, days)
	if err != nil {
		return nil, pair, statusFor(err), err
	}
	v, err := BuildView(h.defaults.Title, h.defaults.Caption, rep)
	if err != nil {
		return nil, pair, statusFor(err), err
	}
	return v, pair, http.StatusOK, nil
}

// statusFor maps pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculator.ErrInsufficientData),
		errors.Is(err, calculator.ErrInvalidPrice),
		errors.Is(err, calculator.ErrMisalignedSeries),
		errors.Is(err, calculator.ErrUndefinedCorrelation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collector.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Index renders the HTML dashboard.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	v, pair, status, err := h.view(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		log.Warn().Err(err).Str("pair", pair.String()).Msg("dashboard unavailable")
		w.WriteHeader(status)
		_ = h.errPage.Execute(w, map[string]string{
			"Title":   h.defaults.Title,
			"Pair":    pair.String(),
			"Message": err.Error(),
		})
		return
	}
	if err := h.index.Execute(w, v); err != nil {
		log.Error().Err(err).Msg("render dashboard")
	}
}

// Summary handles GET /api/summary.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	v, _, status, err := h.view(r)
	if err != nil {
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

// Prices handles GET /api/prices.
func (h *Handlers) Prices(w http.ResponseWriter, r *http.Request) {
	v, _, status, err := h.view(r)
	if err != nil {
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol_a": v.SymbolA,
		"symbol_b": v.SymbolB,
		"points":   v.Prices,
	})
}

// Returns handles GET /api/returns.
func (h *Handlers) Returns(w http.ResponseWriter, r *http.Request) {
	v, _, status, err := h.view(r)
	if err != nil {
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol_a": v.SymbolA,
		"symbol_b": v.SymbolB,
		"pairs":    v.Scatter,
		"summary":  v.Summary,
	})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound handles unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, _ *http.Request) {
	h.writeError(w, http.StatusNotFound, errors.New("not found"))
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

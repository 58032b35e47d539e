// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insights/internal/analysis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
)

// maxBodyBytes caps review submissions and analyze requests.
const maxBodyBytes = 64 << 10

type Handlers struct {
	Reviews         *app.ReviewService
	Dashboard       *app.DashboardService
	Insights        *app.InsightService
	DefaultStrategy analysis.Strategy
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/reviews", h.listReviews)
		r.Post("/reviews", h.submitReview)
		r.Post("/reviews/analyze", h.analyze)
		r.Get("/reviews/{id}", h.getReview)
		r.Get("/dashboard", h.dashboard)
		r.Get("/insights", h.insights)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	if af, ok := domain.AsAnalysisFailure(err); ok {
		if af.Kind == domain.FailureRateLimited {
			writeProblem(w, http.StatusTooManyRequests, "Analysis Rate Limited", af.Error())
			return
		}
		writeProblem(w, http.StatusBadGateway, "Analysis Failed", af.Error())
		return
	}
	switch {
	case errors.Is(err, domain.ErrInvalidReview):
		writeProblem(w, http.StatusBadRequest, "Invalid Review", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeCached sends v with a weak ETag, or 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

func (h *Handlers) strategy(w http.ResponseWriter, r *http.Request) (analysis.Strategy, bool) {
	st, err := analysis.ParseStrategy(r.URL.Query().Get("strategy"), h.DefaultStrategy)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid strategy", "strategy must be local or remote")
		return "", false
	}
	return st, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a JSON object")
		return false
	}
	return true
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ReviewFilter{
		Search:   q.Get("q"),
		Country:  q.Get("country"),
		TripType: q.Get("tripType"),
	}
	if rs := q.Get("rating"); rs != "" {
		n, err := strconv.Atoi(rs)
		if err != nil || n < 1 || n > 5 {
			writeProblem(w, http.StatusBadRequest, "Invalid rating", "rating must be an integer between 1 and 5")
			return
		}
		f.Rating = n
	}

	out, err := h.Reviews.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, rv)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	st, ok := h.strategy(w, r)
	if !ok {
		return
	}
	var in domain.NewReview
	if !decodeBody(w, r, &in) {
		return
	}
	rv, err := h.Reviews.Submit(r.Context(), in, st)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/reviews/"+rv.ID)
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	st, ok := h.strategy(w, r)
	if !ok {
		return
	}
	var in analyzeRequest
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.Reviews.Analyze(r.Context(), in.Text, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	m, err := h.Dashboard.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, m)
}

func (h *Handlers) insights(w http.ResponseWriter, r *http.Request) {
	st, ok := h.strategy(w, r)
	if !ok {
		return
	}
	b, err := h.Insights.Get(r.Context(), st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, b)
}

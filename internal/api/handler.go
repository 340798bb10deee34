// Package api implements the internal HTTP surface of the match service.
//
// The gateway owns the public API; these routes exist for the entity-CRUD
// services (which enqueue recomputes on save/publish) and for operators.
//
// Routes:
//
//	POST /internal/recompute/jobs/{id}        → enqueue recompute for a job
//	POST /internal/recompute/candidates/{id}  → enqueue recompute for a candidate
//	POST /internal/resumes/{id}/extract       → enqueue resume extraction
//	GET  /matches/jobs/{id}                   → stored scores for a job, best first
//	GET  /matches/candidates/{id}             → stored scores for a candidate, best first
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/saisrinu135/cleverhire/internal/queue"
	"github.com/saisrinu135/cleverhire/internal/store"
)

const defaultMatchLimit = 50

// Handler holds shared dependencies.
type Handler struct {
	st *store.Store
	q  *queue.Queue
}

// NewHandler returns a configured Handler.
func NewHandler(st *store.Store, q *queue.Queue) *Handler {
	return &Handler{st: st, q: q}
}

// RegisterRoutes mounts all match-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/internal/recompute/", h.handleRecompute)
	mux.HandleFunc("/internal/resumes/", h.handleResume)
	mux.HandleFunc("/matches/", h.handleMatches)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleRecompute handles POST /internal/recompute/{jobs|candidates}/{id}
func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /internal/recompute/{kind}/{id}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	kind, id := parts[2], parts[3]
	if !validID(w, id) {
		return
	}

	var err error
	switch kind {
	case "jobs":
		err = h.q.EnqueueRecomputeJob(r.Context(), id)
	case "candidates":
		err = h.q.EnqueueRecomputeCandidate(r.Context(), id)
	default:
		jsonError(w, fmt.Sprintf("unknown recompute target %q", kind), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[api] enqueue recompute error: %v", err)
		jsonError(w, "queue error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "enqueued"})
}

// handleResume handles POST /internal/resumes/{id}/extract
func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /internal/resumes/{id}/extract
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "extract" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id := parts[2]
	if !validID(w, id) {
		return
	}

	if err := h.q.EnqueueExtractResume(r.Context(), id); err != nil {
		log.Printf("[api] enqueue extraction error: %v", err)
		jsonError(w, "queue error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "enqueued"})
}

// handleMatches handles GET /matches/{jobs|candidates}/{id}
func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /matches/{kind}/{id}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	kind, id := parts[1], parts[2]
	if !validID(w, id) {
		return
	}

	limit := defaultMatchLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 500 {
			jsonError(w, "limit must be an integer in [1,500]", http.StatusBadRequest)
			return
		}
		limit = v
	}

	switch kind {
	case "jobs":
		matches, err := h.st.ListMatchesForJob(r.Context(), id, limit)
		if err != nil {
			log.Printf("[api] listMatchesForJob error: %v", err)
			jsonError(w, "database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	case "candidates":
		matches, err := h.st.ListMatchesForCandidate(r.Context(), id, limit)
		if err != nil {
			log.Printf("[api] listMatchesForCandidate error: %v", err)
			jsonError(w, "database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	default:
		jsonError(w, fmt.Sprintf("unknown match target %q", kind), http.StatusNotFound)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// validID rejects non-UUID path ids with a 400 and reports whether to
// continue.
func validID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		jsonError(w, fmt.Sprintf("invalid id %q", id), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response error: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

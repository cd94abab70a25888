// Package httpapi wires the HTTP surface of the search service: the fuzzy
// search endpoints, the two reference-corpus lookup endpoints, and the
// static file / unmatched-route fallbacks, on top of a chi router.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmitar/busca-fuzzy/internal/config"
	"github.com/marmitar/busca-fuzzy/internal/initorch"
	"github.com/marmitar/busca-fuzzy/internal/model"
	"github.com/marmitar/busca-fuzzy/internal/search"
)

// DisciplinaController is the terminal value of the "disciplina"
// initialization task: a direct code-keyed lookup table, built alongside
// (but independent of) that corpus's fuzzy index.
type DisciplinaController struct {
	ByCode map[string]model.Discipline
}

// CursoController is the terminal value of the "curso" initialization
// task: a direct code-keyed lookup table of course previews plus the fully
// expanded curriculum tree for every (code, variant) pair.
type CursoController struct {
	ByCode map[string]model.CoursePreview
	Trees  map[string]map[string]model.CourseTree
	// VariantOrder preserves each course's variant list in the order
	// presented to clients, so a numeric variant index resolves
	// deterministically.
	VariantOrder map[string][]string
}

// Deps are the dependencies NewRouter needs: the initialization
// orchestrator (to fetch controllers, 503-ing until ready), the search
// orchestrator (for /api/busca and its WebSocket form), the active
// configuration, and an optional static-file directory.
type Deps struct {
	Init      *initorch.Orchestrator
	Search    *search.Orchestrator
	Config    *config.Config
	PublicDir string
	Logger    *slog.Logger
}

// NewRouter builds the full chi.Mux for the search service.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if deps.Config != nil && deps.Config.CompressResponses {
		r.Use(middleware.Compress(5))
	}

	h := &handler{deps: deps, logger: logger}

	r.Route("/api", func(api chi.Router) {
		api.Get("/busca", h.busca)
		api.Get("/busca/ws", h.buscaWS)
		api.Get("/disciplina/{code}", h.disciplina)
		api.Get("/curso/{code}", h.cursoPreview)
		api.Get("/curso/{code}/{variant}", h.cursoTree)

		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, http.StatusBadRequest, "bad_request", "unknown API route")
		})
	})

	r.Handle("/*", staticHandler(deps.PublicDir))

	return r
}

type handler struct {
	deps   Deps
	logger *slog.Logger
}

// busca implements GET /api/busca.
func (h *handler) busca(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit, ok := h.parseLimit(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "bad_request", "invalid limit parameter")
		return
	}

	results := h.deps.Search.Search(r.Context(), query, limit)
	h.writeJSON(w, http.StatusOK, toSearchResults(results, h.deps.Config.SendScore))
}

// buscaWS implements GET /api/busca/ws.
func (h *handler) buscaWS(w http.ResponseWriter, r *http.Request) {
	limit := h.deps.Config.DefaultSearchLimit
	encode := func(ctx context.Context, query string) ([]byte, error) {
		results := h.deps.Search.Search(ctx, query, limit)
		return json.Marshal(toSearchResults(results, h.deps.Config.SendScore))
	}
	search.ServeWS(encode, h.logger).ServeHTTP(w, r)
}

// parseLimit parses the `limit` query parameter: absent means "use the
// configured default"; non-integer or negative is a 400; 0 is a valid
// request for an empty response; above the configured max is clamped down,
// not rejected.
func (h *handler) parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.deps.Config.DefaultSearchLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if n < 0 {
		return 0, false
	}
	if n == 0 {
		return 0, true
	}
	if n > h.deps.Config.MaxSearchLimit {
		n = h.deps.Config.MaxSearchLimit
	}
	return n, true
}

// disciplina implements GET /api/disciplina/:code.
func (h *handler) disciplina(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctrl, err := h.instance(r.Context(), "disciplina")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	dc, ok := ctrl.(*DisciplinaController)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "internal", "disciplina controller has unexpected type")
		return
	}
	d, found := dc.ByCode[code]
	if !found {
		h.writeError(w, http.StatusNotFound, "not_found", "unknown discipline code")
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// cursoPreview implements GET /api/curso/:code.
func (h *handler) cursoPreview(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctrl, err := h.instance(r.Context(), "curso")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	cc, ok := ctrl.(*CursoController)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "internal", "curso controller has unexpected type")
		return
	}
	preview, found := cc.ByCode[code]
	if !found {
		h.writeError(w, http.StatusNotFound, "not_found", "unknown course code")
		return
	}
	h.writeJSON(w, http.StatusOK, preview)
}

// cursoTree implements GET /api/curso/:code/:variant. variant may be a
// variant code (tried first) or a 1-based positional index into the
// course's variant list.
func (h *handler) cursoTree(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	variant := chi.URLParam(r, "variant")

	ctrl, err := h.instance(r.Context(), "curso")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	cc, ok := ctrl.(*CursoController)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "internal", "curso controller has unexpected type")
		return
	}

	trees, found := cc.Trees[code]
	if !found {
		h.writeError(w, http.StatusNotFound, "not_found", "unknown course code")
		return
	}

	if tree, ok := trees[variant]; ok {
		h.writeJSON(w, http.StatusOK, tree)
		return
	}

	if idx, err := strconv.Atoi(variant); err == nil {
		order := cc.VariantOrder[code]
		if idx >= 1 && idx <= len(order) {
			if tree, ok := trees[order[idx-1]]; ok {
				h.writeJSON(w, http.StatusOK, tree)
				return
			}
		}
	}

	h.writeError(w, http.StatusNotFound, "not_found", "unknown course variant")
}

// instance awaits the named initialization task via the orchestrator.
func (h *handler) instance(ctx context.Context, name string) (any, error) {
	return h.deps.Init.Instance(ctx, name)
}

func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, initorch.ErrServiceUnavailable) {
		h.writeError(w, http.StatusServiceUnavailable, "service_unavailable", "corpus not yet initialized")
		return
	}
	h.writeError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
}

// writeJSON encodes v as the response body. In the development profile
// (config.Config.PrettyJSON) it indents the output for readability; map
// keys are already sorted alphabetically by encoding/json regardless of
// profile.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if h.deps.Config != nil && h.deps.Config.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

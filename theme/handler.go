package theme

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Handler handles theme-related HTTP requests.
type Handler struct {
	service *Service
	log     *zap.Logger
}

// NewHandler creates a new theme handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log.Named("theme.http")}
}

// Register adds the theme routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/theme/markdown.css", h.HandleMarkdownCSS)
	mux.HandleFunc("GET /api/theme/page.css", h.HandlePageCSS)
	mux.HandleFunc("GET /api/theme/highlight", h.HandleHighlight)
	mux.HandleFunc("GET /api/theme/mode", h.HandleMode)
	mux.HandleFunc("POST /api/theme/mode/toggle", h.HandleModeToggle)
	mux.HandleFunc("GET /api/themes", h.HandleList)
	mux.HandleFunc("PUT /api/themes/active", h.HandleSelect)
}

// HandleMarkdownCSS serves the compiled Markdown theme, or redirects to the
// stylesheet of an external one.
func (h *Handler) HandleMarkdownCSS(w http.ResponseWriter, r *http.Request) {
	css, href, err := h.service.MarkdownStylesheet()
	if err != nil {
		h.log.Warn("Markdown stylesheet unavailable", zap.Error(err))
		http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
		return
	}
	if href != "" {
		http.Redirect(w, r, href, http.StatusFound)
		return
	}
	writeCSS(w, css)
}

// HandlePageCSS serves the page theme. The mode query parameter overrides
// the stored mode.
func (h *Handler) HandlePageCSS(w http.ResponseWriter, r *http.Request) {
	dark := h.service.Mode.Dark()
	switch r.URL.Query().Get("mode") {
	case "dark":
		dark = true
	case "light":
		dark = false
	case "":
	default:
		http.Error(w, "mode must be dark or light", http.StatusBadRequest)
		return
	}
	writeCSS(w, h.service.PageCSS(dark))
}

func (h *Handler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.HighlightHrefs())
}

type modeResponse struct {
	Dark bool `json:"dark"`
}

func (h *Handler) HandleMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modeResponse{Dark: h.service.Mode.Dark()})
}

func (h *Handler) HandleModeToggle(w http.ResponseWriter, r *http.Request) {
	dark, err := h.service.Mode.Toggle()
	if err != nil {
		h.log.Error("Failed to toggle mode", zap.Error(err))
		http.Error(w, "failed to toggle mode", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Dark: dark})
}

// HandleList returns the themes of the kind given by the kind query
// parameter, markdown by default.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind := Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = KindMarkdown
	}
	list, err := h.service.List(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type selectRequest struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// HandleSelect changes the active theme of one kind.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	err := h.service.Select(req.Kind, req.Key)
	switch {
	case errors.Is(err, ErrUnknownKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrUnknownTheme):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.log.Error("Failed to select theme", zap.Error(err))
		http.Error(w, "failed to select theme", http.StatusInternalServerError)
		return
	}

	list, _ := h.service.List(req.Kind)
	writeJSON(w, http.StatusOK, list)
}

// MenuHTML renders selection buttons for the themes of one kind.
func (h *Handler) MenuHTML(kind Kind) string {
	list, err := h.service.List(kind)
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for _, t := range list {
		builder.WriteString(`<button data-kind="`)
		builder.WriteString(string(kind))
		builder.WriteString(`" data-theme="`)
		builder.WriteString(html.EscapeString(t.Key))
		builder.WriteString(`" title="`)
		builder.WriteString(html.EscapeString(t.Description))
		builder.WriteString(`"`)
		if t.Active {
			builder.WriteString(` class="active"`)
		}
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(t.DisplayName))
		builder.WriteString(`</button>`)
	}
	return builder.String()
}

func writeCSS(w http.ResponseWriter, css string) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(css))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"inkblog/model"
	"inkblog/posts"
)

// Server serves the JSON API.
type Server struct {
	library *posts.Library
	ws      *WSConnectionManager
	log     *zap.Logger

	upgrader websocket.Upgrader
	started  time.Time
}

func NewServer(library *posts.Library, ws *WSConnectionManager, log *zap.Logger) *Server {
	return &Server{
		library: library,
		ws:      ws,
		log:     log.Named("api"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		started: time.Now(),
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/posts", s.handlePosts)
	mux.HandleFunc("GET /api/posts/{slug}", s.handlePost)
	mux.HandleFunc("GET /api/tags", s.handleTags)
	mux.HandleFunc("GET /api/ws", s.handleWS)
}

type healthResponse struct {
	Status  string `json:"status"`
	Posts   int    `json:"posts"`
	Clients int    `json:"clients"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Posts:   len(s.library.Posts()),
		Clients: s.ws.Count(),
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

// ---------- posts ----------

// postSummary is a post without its body.
type postSummary struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Tags      []string `json:"tags"`
	Excerpt   string   `json:"excerpt,omitempty"`
	HeroImage string   `json:"heroImage,omitempty"`
}

func summarize(list []model.Post) []postSummary {
	out := make([]postSummary, 0, len(list))
	for _, p := range list {
		out = append(out, postSummary{
			Slug:      p.Slug,
			Title:     p.Title,
			Date:      p.Date,
			Tags:      p.Tags,
			Excerpt:   p.Excerpt,
			HeroImage: p.HeroImage,
		})
	}
	return out
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	list := s.library.Posts()
	if tag := r.URL.Query().Get("tag"); tag != "" {
		list = posts.FilterByTag(list, tag)
	}
	writeJSON(w, http.StatusOK, summarize(list))
}

type postResponse struct {
	model.Post
	HTML string `json:"html"`
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.library.BySlug(r.PathValue("slug"))
	if errors.Is(err, posts.ErrNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Post: post, HTML: posts.Render(post.Body)})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.library.Tags())
}

// ---------- websocket ----------

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	id := s.ws.Add(conn)
	defer s.ws.Remove(id)

	if err := s.ws.WriteJSON(id, model.Message{Type: model.MessageHello, Data: map[string]string{"id": id}}); err != nil {
		return
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("writeJSON error", zap.Error(err))
	}
}

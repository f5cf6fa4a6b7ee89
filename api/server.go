package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/service"
	"github.com/wricardo/mcp-training/tronarena/game/session"
	"github.com/wricardo/mcp-training/tronarena/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	arena  service.Arena
	hub    *websocket.Hub
	mcp    http.Handler
	logger *zap.Logger
	router *mux.Router
}

// NewServer creates a new API server. hub and mcpHandler may be nil, in which
// case /ws and /mcp are not mounted.
func NewServer(arena service.Arena, hub *websocket.Hub, mcpHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		arena:  arena,
		hub:    hub,
		mcp:    mcpHandler,
		logger: logger,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Spectator views
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods("GET")
	api.HandleFunc("/courses", s.handleListCourses).Methods("GET")
	api.HandleFunc("/stream", s.handleStream).Methods("GET")

	// Player commands
	api.HandleFunc("/players/{name}/join", s.handleJoin).Methods("POST")
	api.HandleFunc("/players/{name}/steer", s.handleSteer).Methods("POST")
	api.HandleFunc("/players/{name}/look", s.handleLook).Methods("GET")
	api.HandleFunc("/players/{name}/status", s.handleStatus).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
	if s.mcp != nil {
		s.router.Handle("/mcp", s.mcp).Methods("POST")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps arena errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotInGame),
		errors.Is(err, session.ErrInvalidState),
		errors.Is(err, session.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	respondError(w, status, err.Error())
}

// messageResponse is the body of every player command reply.
type messageResponse struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

// Spectator handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter != "" && filter != "active" && filter != "finished" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid status filter '%s'", filter))
		return
	}

	resp := service.GamesResponse{}
	if filter != "finished" {
		active, err := s.arena.ActiveGames(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Active = active
	}
	if filter != "active" {
		finished, err := s.arena.FinishedGames(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Finished = finished
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.arena.Game(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.arena.Leaderboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []session.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.arena.Courses(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(courses),
		"courses": courses,
	})
}

// handleStream sends arena events as server-sent events until the client
// goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := s.arena.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// Player handlers

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	msg, err := s.arena.Join(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Player: name, Message: msg})
}

func (s *Server) handleSteer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req struct {
		Direction string `json:"direction"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Direction == "" {
		req.Direction = r.URL.Query().Get("direction")
	}

	msg, err := s.arena.Steer(r.Context(), name, strings.TrimSpace(req.Direction))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Player: name, Message: msg})
}

func (s *Server) handleLook(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	msg, err := s.arena.Look(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Player: name, Message: msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	msg, err := s.arena.Status(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Player: name, Message: msg})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID != "" {
		if _, err := s.arena.Game(r.Context(), gameID); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.hub.ServeWS(w, r, gameID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

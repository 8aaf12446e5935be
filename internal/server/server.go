package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/session"
	"github.com/roach88/quixo/internal/store"
)

// Error codes of HTTP error bodies.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL"
	CodeMoveNotFound = "MOVE_NOT_FOUND"
)

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewGameRequest is the body of POST /games.
type NewGameRequest struct {
	Mode string `json:"mode"`
}

// Server routes HTTP requests to a session.Service.
type Server struct {
	svc      *session.Service
	hub      *Hub
	router   *way.Router
	upgrader websocket.Upgrader
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithCheckOrigin sets the websocket origin check. Default: same host only.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// AllowOrigins returns an origin check accepting requests without an
// Origin header and those whose Origin is listed. "*" accepts any origin.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// WithNow sets the clock used to name export files.
func WithNow(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New returns a Server for svc. hub must be the notifier svc was built
// with for /watch to receive updates.
func New(svc *session.Service, hub *Hub, opts ...Option) *Server {
	s := &Server{svc: svc, hub: hub, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("POST", "/games", s.handleNewGame)
	s.router.HandleFunc("GET", "/games/:id", s.handleGame)
	s.router.HandleFunc("POST", "/games/:id/moves", s.handleMove)
	s.router.HandleFunc("GET", "/games/:id/moves", s.handleMoves)
	s.router.HandleFunc("GET", "/games/:id/moves/:n", s.handleMoveState)
	s.router.HandleFunc("POST", "/games/:id/reset", s.handleReset)
	s.router.HandleFunc("GET", "/games/:id/export", s.handleExport)
	s.router.HandleFunc("GET", "/games/:id/legal", s.handleLegal)
	s.router.HandleFunc("GET", "/games/:id/watch", s.handleWatch)
	s.router.HandleFunc("GET", "/history", s.handleHistory)
	s.router.HandleFunc("GET", "/stats", s.handleStats)
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "no such route")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// waiting at most shutdownTimeout for open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	mode, err := quixo.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	v, err := s.svc.NewGame(r.Context(), mode)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Location", "/games/"+v.ID)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Game(r.Context(), way.Param(r.Context(), "id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req session.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	req.GameID = way.Param(r.Context(), "id")

	res, err := s.svc.MakeMove(r.Context(), req)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	status := http.StatusOK
	switch res.Code {
	case session.CodeGameNotFound:
		status = http.StatusNotFound
	case session.CodeConcurrentMove:
		status = http.StatusConflict
	}
	writeJSON(w, status, res)
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := s.svc.Moves(r.Context(), way.Param(r.Context(), "id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moves)
}

func (s *Server) handleMoveState(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(way.Param(r.Context(), "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "move number must be an integer")
		return
	}
	bs, err := s.svc.MoveState(r.Context(), way.Param(r.Context(), "id"), n)
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// handleLegal lists the pickable cubes. With row and col query parameters
// it also lists where that cube may be pushed back in.
func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	var from *quixo.Position
	q := r.URL.Query()
	if q.Has("row") || q.Has("col") {
		row, rerr := strconv.Atoi(q.Get("row"))
		col, cerr := strconv.Atoi(q.Get("col"))
		if rerr != nil || cerr != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "row and col must both be integers")
			return
		}
		from = &quixo.Position{Row: row, Col: col}
	}

	lm, err := s.svc.Legal(r.Context(), way.Param(r.Context(), "id"), from)
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lm)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Reset(r.Context(), way.Param(r.Context(), "id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, moves, err := s.svc.Record(r.Context(), way.Param(r.Context(), "id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(g.ID, s.now())))
	if err := export.Write(w, g, moves); err != nil {
		slog.Error("export failed", "game_id", g.ID, "error", err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	games, err := s.svc.History(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := way.Param(r.Context(), "id")
	if _, err := s.svc.Game(r.Context(), id); err != nil {
		s.lookupError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "game_id", id, "error", err)
		return
	}
	defer conn.Close()

	wt := &watcher{conn: conn, send: make(chan session.GameView, sendBufferSize)}
	// registering under the game lock queues the current view ahead of
	// any later update
	err = s.svc.Watch(context.WithoutCancel(r.Context()), id, func(v session.GameView) {
		s.hub.register(id, wt)
		wt.offer(v)
	})
	if err != nil {
		slog.Warn("watch failed", "game_id", id, "error", err)
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		wt.writeLoop()
	}()

	// watchers only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.unregister(id, wt)
	<-done
}

func (s *Server) lookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "game not found")
	case errors.Is(err, session.ErrMoveNotFound):
		writeError(w, http.StatusNotFound, CodeMoveNotFound, "move not found")
	default:
		s.internalError(w, r, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg, Code: code})
}

package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roach88/quixo/internal/session"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Hub fans game updates out to websocket watchers. It implements
// session.Notifier.
type Hub struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{} // game id -> watchers
}

type watcher struct {
	conn *websocket.Conn
	send chan session.GameView
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{watchers: make(map[string]map[*watcher]struct{})}
}

// GameUpdated queues v for every watcher of v.ID. A watcher whose buffer is
// full misses the update.
func (h *Hub) GameUpdated(v session.GameView) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers[v.ID] {
		w.offer(v)
	}
}

func (w *watcher) offer(v session.GameView) {
	select {
	case w.send <- v:
	default:
		slog.Warn("watcher too slow, dropping update", "game_id", v.ID, "move_count", v.MoveCount)
	}
}

// Watchers returns the number of watchers of a game.
func (h *Hub) Watchers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[gameID])
}

func (h *Hub) register(gameID string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.watchers[gameID]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[gameID] = set
	}
	set[w] = struct{}{}
	slog.Debug("watcher connected", "game_id", gameID, "watchers", len(set))
}

func (h *Hub) unregister(gameID string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.watchers[gameID]
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	close(w.send)
	if len(set) == 0 {
		delete(h.watchers, gameID)
	}
	slog.Debug("watcher disconnected", "game_id", gameID, "watchers", len(set))
}

// writeLoop sends queued views until the channel is closed.
func (w *watcher) writeLoop() {
	for v := range w.send {
		_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := w.conn.WriteJSON(v); err != nil {
			slog.Debug("watcher write failed", "game_id", v.ID, "error", err)
			return
		}
	}
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

package httpapi

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	feedWriteTimeout = 5 * time.Second
	feedBuffer       = 32
)

var feedUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(u.Host), strings.TrimSpace(r.Host))
	},
}

// feedMessage is one frame on /api/events. The first frame is always a
// snapshot; every later frame is a transition.
type feedMessage struct {
	Type    string                `json:"type"`
	Targets []domain.TargetStatus `json:"targets,omitempty"`
	Event   *domain.Event         `json:"event,omitempty"`
}

type subscriber struct {
	send chan domain.Event
}

// Hub fans transition events out to websocket subscribers. Slow subscribers
// lose events instead of stalling the sweep.
type Hub struct {
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// Observe implements scheduler.Observer.
func (h *Hub) Observe(e domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- e:
		default:
			h.logger.Warn("feed_event_dropped", zap.String("event_id", e.ID))
		}
	}
}

func (h *Hub) subscribe() *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	sub := &subscriber{send: make(chan domain.Event, feedBuffer)}
	h.subs[sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// Subscribers reports how many feeds are attached.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.send)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		http.Error(w, "event feed disabled", http.StatusNotFound)
		return
	}
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.Events.subscribe()
	if sub == nil {
		return
	}
	defer s.Events.unsubscribe(sub)

	if err := writeFeed(conn, feedMessage{Type: "snapshot", Targets: s.Targets.Snapshot()}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e, ok := <-sub.send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(feedWriteTimeout))
				return
			}
			if err := writeFeed(conn, feedMessage{Type: "transition", Event: &e}); err != nil {
				s.Logger.Debug("feed_write_failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}

func writeFeed(conn *websocket.Conn, msg feedMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return conn.WriteJSON(msg)
}

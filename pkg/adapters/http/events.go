package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// ChangeKind names an edit broadcast to subscribers.
type ChangeKind string

const (
	ChangeSaved       ChangeKind = "saved"
	ChangeDeleted     ChangeKind = "deleted"
	ChangeNodeAdded   ChangeKind = "node_added"
	ChangeNodeRemoved ChangeKind = "node_removed"
	ChangeBreakpoint  ChangeKind = "breakpoint"
)

// Change is the payload of a program event.
type Change struct {
	Program  string     `json:"program"`
	Kind     ChangeKind `json:"kind"`
	Function string     `json:"function,omitempty"`
	Node     domain.Tag `json:"node,omitempty"`
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // program -> set of channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(program string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[program]; !ok {
		sm.subscribers[program] = make(map[chan<- string]struct{})
	}
	sm.subscribers[program][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[program]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, program)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(program string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[program] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "program", program)
		}
	}
}

// SubscribeEvents handles the GET /programs/{name}/events request (SSE).
// The optional watch parameter filters by change kind (comma separated).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	program := chi.URLParam(r, "name")
	s.logger.Info("SSE: Subscribing to program changes", "program", program)

	ch, cancel := s.Streams.Subscribe(program)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	kinds, err := queryList(r, "watch")
	if err != nil {
		s.logger.Warn("SubscribeEvents: ignoring invalid watch filter", "err", err)
	}
	watch := make(map[string]bool)
	for _, kind := range kinds {
		watch[strings.TrimSpace(kind)] = true
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "program", program)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watch[kindOf(msg)] {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func kindOf(msg string) string {
	var c Change
	if err := json.Unmarshal([]byte(msg), &c); err != nil {
		return ""
	}
	return string(c.Kind)
}

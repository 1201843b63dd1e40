package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/octet-stream/qwik/pkg/fns"
)

// reloadMessage is pushed to dev clients when the env cascade changes.
// A changed variable may be inlined anywhere in the client artifacts,
// so the only safe reaction is a full reload.
var reloadMessage = []byte(`{"type":"full-reload"}`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(req *http.Request) bool {
		// The reload socket only exists on dev servers and never
		// carries data, so any origin may subscribe.
		return true
	},
}

// reloadHub tracks connected dev clients and fans reload notifications
// out to them.
type reloadHub struct {
	log zerolog.Logger

	mu      sync.Mutex
	clients map[chan struct{}]struct{}
	closed  bool
}

func newReloadHub(log zerolog.Logger) *reloadHub {
	return &reloadHub{
		log:     log.With().Str("component", "reload").Logger(),
		clients: make(map[chan struct{}]struct{}),
	}
}

// notify wakes every connected client. The per-client channels have a
// one-slot buffer, so notifications arriving while a client write is in
// flight coalesce into one.
func (h *reloadHub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *reloadHub) add(ch chan struct{}) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[ch] = struct{}{}
	return true
}

func (h *reloadHub) remove(ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

// close disconnects every client and rejects future subscriptions.
// Closed channels are removed from the map under the same lock notify
// sends under, so notify can never hit one. Safe to call repeatedly.
func (h *reloadHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		close(ch)
	}
	h.clients = make(map[chan struct{}]struct{})
}

// reloadSocket upgrades the connection to a websocket and pushes a
// full-reload message whenever NotifyReload fires. Registered on dev
// servers only.
func (s *Server) reloadSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already written an error response.
		s.reload.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer fns.CloseIgnore(conn)

	ch := make(chan struct{}, 1)
	if !s.reload.add(ch) {
		return
	}
	defer s.reload.remove(ch)

	s.reload.log.Debug().
		Str("client", conn.RemoteAddr().String()).
		Msg("dev client subscribed to reload events")

	// Discard anything the client sends. The read loop exists to notice
	// the peer going away.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, reloadMessage); err != nil {
				return
			}
		case <-readDone:
			return
		}
	}
}

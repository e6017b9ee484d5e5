package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 120 * time.Second
	pingPeriod = 30 * time.Second
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.origin
		},
	}
}

// handleStream pushes the current snapshot, then every update of the game,
// as JSON text frames. Viewers need no seat token; with ?token= they also see
// that seat's hand. Client frames are read only to notice disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	seats := s.viewerSeats(r, t.ID())
	msgs, unsubscribe := s.bus.Subscribe(t.ID())
	defer unsubscribe()

	ws, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Str("gameId", t.ID()).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		ws.SetReadLimit(1024)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v gameView) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		return ws.WriteMessage(websocket.TextMessage, b)
	}

	if res, err := t.Snapshot(); err == nil {
		if err := send(s.view(r, t.ID(), res.Generation, nil, res.Snapshot, seats)); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if err := send(s.view(r, m.GameID, m.Generation, m.Events, m.Snapshot, seats)); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

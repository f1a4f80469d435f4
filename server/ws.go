package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	gws "github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// gameStream upgrades the connection and pushes a snapshot after every
// mutation of the game. The first message is the current state, so clients
// need no separate initial fetch.
func (gs *GameServer) gameStream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	view, err := gs.registry.Status(gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := gs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	sub := gs.hub.Subscribe(gameID)
	defer gs.hub.Unsubscribe(gameID, sub)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader only drains control frames; its exit signals a gone client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(view); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-sub.C():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(gws.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(gws.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

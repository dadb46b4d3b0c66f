package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"trashify/internal/config"
	"trashify/internal/logger"
	"trashify/internal/services"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

// NewUpgrader accepts websocket connections from allowedOrigin, or from any
// origin when it is "*".
func NewUpgrader(allowedOrigin string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
}

// ViewWebsocketHandler subscribes a viewer to live statistics pushes.
func ViewWebsocketHandler(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	upgrader := NewUpgrader(cfg.AllowedOrigin)

	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(pongWait))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		defer connection.Close()

		manager.GetWebsocketService().Register(connection)
		defer manager.GetWebsocketService().Unregister(connection)
		manager.RequestStatsRefresh()

		logger.Info("Viewer connected from %s", r.RemoteAddr)

		done := make(chan struct{})
		defer close(done)
		go ping(connection, done)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				logger.Info("Viewer disconnected: %v", err)
				break
			}
		}
	}
}

// ping keeps the read deadline of an idle viewer alive. WriteControl may run
// concurrently with the hub's writes.
func ping(connection *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/ffarena/progression/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured AllowedOrigins once the admin
		// frontend has a fixed host.
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the caller to one day's live updates: leaderboard
// recomputes, bracket changes and lifecycle transitions.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	dayIDStr := chi.URLParam(r, "dayID")
	dayID, err := strconv.Atoi(dayIDStr)
	if err != nil || dayID < 1 {
		http.Error(w, "invalid dayID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade connection for day %d: %v", dayID, err)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.DayRoom(dayID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

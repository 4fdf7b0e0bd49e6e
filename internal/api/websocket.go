// Package api - WebSocket handler for streamed evaluation runs
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/alexbotov/rnglab/internal/audit"
	"github.com/alexbotov/rnglab/internal/bench"
	"github.com/alexbotov/rnglab/internal/domain"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSClient represents a WebSocket client connection
type WSClient struct {
	conn *websocket.Conn
	send chan []byte
	ip   string

	mu      sync.Mutex
	running bool
	closed  bool
}

// close marks the client closed and shuts the send channel. A running
// evaluation goroutine may outlive the read loop; the closed flag keeps its
// late results from hitting the closed channel.
func (c *WSClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// HandleWebSocket handles WebSocket connections for evaluation streaming.
// The client sends an "evaluate" message carrying the same request body as
// POST /api/v1/evaluate; the server answers with one "row" message per sample
// size as results become available, then a final "report". A new run may be
// requested after the previous one finishes.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan []byte, 256),
		ip:   getClientIP(r),
	}

	go client.writePump()
	go h.readPump(client)
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *WSClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			w.Close()

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the handler
func (h *Handler) readPump(c *WSClient) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})

	// Send welcome message
	h.sendMessage(c, "connected", map[string]interface{}{
		"generators": h.registry.Names(),
		"message":    "Connected to evaluation stream",
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(c, "INVALID_MESSAGE", "Invalid message format")
			continue
		}

		h.handleWSMessage(ctx, c, &msg)
	}
}

// handleWSMessage processes incoming WebSocket messages
func (h *Handler) handleWSMessage(ctx context.Context, c *WSClient, msg *WSMessage) {
	switch msg.Type {
	case "evaluate":
		h.handleEvaluateMessage(ctx, c, msg)

	case "generators":
		h.sendMessage(c, "generators", map[string]interface{}{
			"generators": h.registry.Names(),
		})

	case "ping":
		h.sendMessage(c, "pong", map[string]interface{}{
			"timestamp": time.Now().Unix(),
		})

	default:
		h.sendError(c, "UNKNOWN_MESSAGE", "Unknown message type: "+msg.Type)
	}
}

// handleEvaluateMessage starts a streamed evaluation run
func (h *Handler) handleEvaluateMessage(ctx context.Context, c *WSClient, msg *WSMessage) {
	var req domain.EvaluationRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.sendError(c, "INVALID_PAYLOAD", "Invalid evaluation payload")
		return
	}
	if err := req.Validate(h.config.Limits); err != nil {
		h.sendError(c, "INVALID_PARAMETERS", err.Error())
		return
	}

	src, err := h.registry.New(req.Generator, req.Seed)
	if err != nil {
		h.sendError(c, "UNKNOWN_GENERATOR", err.Error())
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		h.sendError(c, "RUN_IN_PROGRESS", "An evaluation is already running on this connection")
		return
	}
	c.running = true
	c.mu.Unlock()

	params := h.paramsFor(&req)

	go func() {
		defer func() {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
		}()

		h.audit.Log(ctx, audit.EventEvaluationStarted, domain.SeverityInfo,
			"Streamed evaluation started", map[string]interface{}{"generator": req.Generator},
			audit.WithIP(c.ip), audit.WithComponent("api"))

		report, err := bench.Run(ctx, src, req.Seed, params, func(row domain.Row) {
			h.sendMessage(c, "row", row)
		})
		if err != nil {
			h.audit.Log(ctx, audit.EventEvaluationFailed, domain.SeverityWarning,
				"Streamed evaluation failed", map[string]interface{}{"generator": req.Generator, "error": err.Error()},
				audit.WithComponent("api"))
			h.sendError(c, "EVALUATION_FAILED", err.Error())
			return
		}

		h.audit.Log(ctx, audit.EventEvaluationCompleted, domain.SeverityInfo,
			"Streamed evaluation completed", map[string]interface{}{"generator": report.Generator},
			audit.WithRun(report.ID), audit.WithComponent("api"))

		h.sendMessage(c, "report", report)
	}()
}

// sendMessage sends a message to the client
func (h *Handler) sendMessage(c *WSClient, msgType string, payload interface{}) {
	payloadBytes, _ := json.Marshal(payload)
	msg := WSMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}
	msgBytes, _ := json.Marshal(msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- msgBytes:
	default:
		// Channel full, drop message
	}
}

// sendError sends an error message to the client
func (h *Handler) sendError(c *WSClient, code, message string) {
	h.sendMessage(c, "error", map[string]string{
		"code":    code,
		"message": message,
	})
}

package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ysalloum/pulsedesk/internal/router"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// console serves the operator websocket. Each frame is routed through the
// same pipeline as the REST endpoint; malformed frames get an error frame,
// never a closed socket.
type console struct {
	router *router.Router
}

func newConsole(rt *router.Router) *console {
	return &console{router: rt}
}

// consoleFrame is the incoming websocket message format.
type consoleFrame struct {
	CustomerID string `json:"customer_id"`
	Channel    string `json:"channel,omitempty"`
	Content    string `json:"content"`
}

// consoleReply is the outgoing websocket message format.
type consoleReply struct {
	Type   string              `json:"type"` // "result" or "error"
	Error  string              `json:"error,omitempty"`
	Result *router.RouteResult `json:"result,omitempty"`
}

func (c *console) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("console: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("console: websocket read: %v", err)
			}
			return
		}

		var frame consoleFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			c.sendError(conn, "invalid frame format")
			continue
		}

		result, err := c.router.Route(r.Context(), router.Request{
			Message:    frame.Content,
			CustomerID: frame.CustomerID,
			Channel:    defaultChannel(frame.Channel),
		})
		if err != nil {
			c.sendError(conn, err.Error())
			continue
		}

		c.send(conn, consoleReply{Type: "result", Result: result})
	}
}

func defaultChannel(channel string) string {
	if channel == "" {
		return "console"
	}
	return channel
}

func (c *console) send(conn *websocket.Conn, reply consoleReply) {
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("console: websocket write: %v", err)
	}
}

func (c *console) sendError(conn *websocket.Conn, message string) {
	c.send(conn, consoleReply{Type: "error", Error: message})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"efficiensa/internal/display"
	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 256
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // displays are served from other origins on the LAN
	},
}

// Message is pushed to a display over the websocket
type Message struct {
	Type    string         `json:"type"`
	Board   *kitchen.Board `json:"board,omitempty"`
	Display *display.State `json:"display,omitempty"`
	Action  string         `json:"action,omitempty"`
	Changed bool           `json:"changed,omitempty"`
	Order   *kitchen.Card  `json:"order,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Command is sent by a display or bump bar
type Command struct {
	Action   string `json:"action"`
	OrderID  string `json:"orderId"`
	ItemID   string `json:"itemId,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// wsClient maintains the websocket connection of one display
type wsClient struct {
	conn    *websocket.Conn
	api     *KitchenAPI
	view    kitchen.View
	station string

	send   chan []byte
	mu     sync.Mutex
	closed bool
	stop   func()
}

// HandleWebSocket upgrades the connection and streams the board on every clock tick
func (k *KitchenAPI) HandleWebSocket(c *gin.Context) {
	view, err := kitchen.ParseView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		k.Log.Error("ws_upgrade_failed", "Failed to upgrade connection", requestID(c), nil, err)
		return
	}

	ticks, unsubscribe := k.Ticker.Subscribe()
	client := &wsClient{
		conn:    conn,
		api:     k,
		view:    view,
		station: c.Query("station"),
		send:    make(chan []byte, sendBuffer),
		stop:    unsubscribe,
	}
	k.Log.Debug("ws_connected", "Display connected", requestID(c), map[string]interface{}{
		"view":    view,
		"station": client.station,
	})

	client.pushBoard(k.Kitchen.Now())

	go client.writePump()
	go client.readPump()
	go client.feed(ticks)
}

// feed pushes a fresh board on every tick until the subscription ends
func (c *wsClient) feed(ticks <-chan time.Time) {
	for now := range ticks {
		if !c.pushBoard(now) {
			return
		}
	}
	c.close()
}

func (c *wsClient) pushBoard(now time.Time) bool {
	board, err := c.api.Kitchen.BoardAt(c.view, c.station, now)
	if err != nil {
		c.api.Log.Error("ws_board_failed", "Failed to build board", "", map[string]interface{}{"view": c.view}, err)
		return c.enqueue(Message{Type: "error", Error: "board unavailable"})
	}
	msg := Message{Type: "board", Board: &board}
	if c.api.Rotator != nil {
		state := c.api.Rotator.Current(now)
		msg.Display = &state
	}
	return c.enqueue(msg)
}

// enqueue queues a message, dropping it when the display is not keeping up.
// It reports false once the connection is closed.
func (c *wsClient) enqueue(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
	default:
	}
	return true
}

func (c *wsClient) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	c.stop()
}

// readPump handles commands from the display until the connection drops
func (c *wsClient) readPump() {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.api.Log.Error("ws_read_failed", "WebSocket error", "", nil, err)
			}
			return
		}
		c.handleCommand(message)
	}
}

// writePump writes queued messages and keeps the connection alive with pings
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) handleCommand(raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		c.enqueue(Message{Type: "error", Error: "invalid command"})
		return
	}

	order, changed, err := c.api.execute(context.Background(), cmd)
	if err != nil {
		msg := Message{Type: "error", Action: cmd.Action, Error: err.Error()}
		if errors.Is(err, kitchen.ErrOrderNotFound) {
			msg.Error = "Order not found"
		}
		c.enqueue(msg)
		return
	}

	card := c.api.card(order)
	c.enqueue(Message{Type: "result", Action: cmd.Action, Changed: changed, Order: &card})
	if changed {
		c.pushBoard(c.api.Kitchen.Now())
	}
}

var errUnknownCommand = errors.New("unknown action")

// execute applies a display command to the kitchen
func (k *KitchenAPI) execute(ctx context.Context, cmd Command) (*models.Order, bool, error) {
	switch cmd.Action {
	case "bump":
		return k.Kitchen.Bump(ctx, cmd.OrderID)
	case "recall":
		return k.Kitchen.Recall(ctx, cmd.OrderID)
	case "delay":
		return k.Kitchen.FlagDelayed(ctx, cmd.OrderID)
	case "acknowledge":
		return k.Kitchen.Acknowledge(ctx, cmd.OrderID)
	case "toggle":
		return k.Kitchen.ToggleItem(ctx, cmd.OrderID, cmd.ItemID)
	case "priority":
		return k.Kitchen.UpgradePriority(ctx, cmd.OrderID, models.Priority(cmd.Priority))
	default:
		return nil, false, errUnknownCommand
	}
}

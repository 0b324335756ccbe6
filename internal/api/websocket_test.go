package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

func dialBoard(t *testing.T, f *fixture, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(f.api.Router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one matches or the deadline passes
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func createDirect(t *testing.T, f *fixture, number string) *models.Order {
	t.Helper()
	o, err := f.kitchen.Create(context.Background(), kitchen.CreateOrder{
		OrderNumber: number,
		OrderType:   "takeout",
		Items:       []kitchen.CreateItem{{ID: "a", Name: "Ramen", Quantity: 1, Station: "Wok"}},
	})
	require.NoError(t, err)
	return o
}

func TestWebSocket_SendsSnapshotOnConnect(t *testing.T) {
	f := newFixture(t)
	createDirect(t, f, "1")

	conn := dialBoard(t, f, "?view=queue")
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "board" })

	require.NotNil(t, msg.Board)
	assert.Equal(t, kitchen.ViewQueue, msg.Board.View)
	assert.Len(t, msg.Board.Cards, 1)
	require.NotNil(t, msg.Display)
	assert.Equal(t, "queue", msg.Display.Screen.ID)
}

func TestWebSocket_PushesBoardOnTick(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.api.Ticker.Run(ctx)
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))

	conn := dialBoard(t, f, "?view=queue")
	readUntil(t, conn, func(m Message) bool { return m.Type == "board" })

	createDirect(t, f, "2")
	require.Eventually(t, func() bool { return f.api.Ticker.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	f.clock.Advance(time.Second)

	msg := readUntil(t, conn, func(m Message) bool {
		return m.Type == "board" && m.Board != nil && len(m.Board.Cards) == 1
	})
	assert.Equal(t, t0.Add(time.Second), msg.Board.GeneratedAt.UTC())
}

func TestWebSocket_Commands(t *testing.T) {
	f := newFixture(t)
	order := createDirect(t, f, "3")

	conn := dialBoard(t, f, "")
	readUntil(t, conn, func(m Message) bool { return m.Type == "board" })

	require.NoError(t, conn.WriteJSON(Command{Action: "bump", OrderID: order.ID}))
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "result" })
	assert.Equal(t, "bump", msg.Action)
	assert.True(t, msg.Changed)
	require.NotNil(t, msg.Order)
	assert.Equal(t, models.StatusCooking, msg.Order.Status)

	require.NoError(t, conn.WriteJSON(Command{Action: "toggle", OrderID: order.ID, ItemID: "a"}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "result" })
	assert.Equal(t, models.ItemDone, msg.Order.Items[0].Status)

	require.NoError(t, conn.WriteJSON(Command{Action: "explode", OrderID: order.ID}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Equal(t, "unknown action", msg.Error)

	require.NoError(t, conn.WriteJSON(Command{Action: "bump", OrderID: "missing"}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Equal(t, "Order not found", msg.Error)
}

func TestWebSocket_UnsubscribesOnClose(t *testing.T) {
	f := newFixture(t)
	conn := dialBoard(t, f, "")
	readUntil(t, conn, func(m Message) bool { return m.Type == "board" })
	require.Equal(t, 1, f.api.Ticker.Subscribers())

	conn.Close()
	assert.Eventually(t, func() bool { return f.api.Ticker.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

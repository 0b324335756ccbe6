package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

type cartJSON struct {
	Lines []struct {
		Key      string `json:"key"`
		Quantity int    `json:"quantity"`
	} `json:"lines"`
	OrderType string `json:"orderType"`
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

func (f *fixture) cart(t *testing.T, r request) cartJSON {
	t.Helper()
	if r.terminal == "" {
		r.terminal = "POS-1"
	}
	w := f.do(t, r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var c cartJSON
	decode(t, w, &c)
	return c
}

var burger = gin.H{"id": "burger", "name": "Burger", "price": "8.50", "category": "Grill"}

func withMods(item gin.H, mods ...gin.H) gin.H {
	out := gin.H{}
	for k, v := range item {
		out[k] = v
	}
	out["modifiers"] = mods
	return out
}

func TestCart_AddAndTotals(t *testing.T) {
	f := newFixture(t)
	cheese := gin.H{"id": "cheese", "name": "Extra cheese", "price": "1.00"}

	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger})
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger})
	c := f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: withMods(burger, cheese)})

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, "burger|cheese", c.Lines[1].Key)
	assert.Equal(t, 3, c.ItemCount)
	assert.Equal(t, "26.5", c.Subtotal)
	assert.Equal(t, "2.65", c.Tax)
	assert.Equal(t, "29.15", c.Total)
}

func TestCart_IsPerTerminal(t *testing.T) {
	f := newFixture(t)
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger, terminal: "POS-1"})

	other := f.cart(t, request{method: http.MethodGet, path: "/api/v1/cart", terminal: "POS-2"})
	assert.Empty(t, other.Lines)

	mine := f.cart(t, request{method: http.MethodGet, path: "/api/v1/cart", terminal: "pos-1"})
	assert.Len(t, mine.Lines, 1)
}

func TestCart_LineAndItemUpdates(t *testing.T) {
	f := newFixture(t)
	cheese := gin.H{"id": "cheese", "name": "Extra cheese", "price": "1.00"}
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger})
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: withMods(burger, cheese)})

	key := url.PathEscape("burger|cheese")
	c := f.cart(t, request{method: http.MethodPatch, path: "/api/v1/cart/lines/" + key, body: gin.H{"quantity": 4}})
	require.Len(t, c.Lines, 2)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, 4, c.Lines[1].Quantity)

	c = f.cart(t, request{method: http.MethodDelete, path: "/api/v1/cart/lines/" + key})
	require.Len(t, c.Lines, 1)

	c = f.cart(t, request{method: http.MethodPatch, path: "/api/v1/cart/items/burger", body: gin.H{"quantity": 3}})
	assert.Equal(t, 3, c.Lines[0].Quantity)

	c = f.cart(t, request{method: http.MethodPatch, path: "/api/v1/cart/items/burger", body: gin.H{"quantity": 0}})
	assert.Empty(t, c.Lines)
	assert.Equal(t, "0", c.Total)
}

func TestCart_OrderTypeAndClear(t *testing.T) {
	f := newFixture(t)
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger})

	c := f.cart(t, request{method: http.MethodPut, path: "/api/v1/cart/order-type", body: gin.H{"orderType": "takeout"}})
	assert.Equal(t, "takeout", c.OrderType)

	w := f.do(t, request{method: http.MethodPut, path: "/api/v1/cart/order-type", body: gin.H{"orderType": "drone"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c = f.cart(t, request{method: http.MethodDelete, path: "/api/v1/cart"})
	assert.Empty(t, c.Lines)
	assert.Empty(t, c.OrderType)
}

func TestCart_RejectsInvalidItems(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"name": "No id"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"id": "x", "name": "X", "price": "-1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	cheese := gin.H{"id": "cheese", "name": "Extra cheese", "price": "1.00"}

	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/cart/checkout", body: gin.H{"orderNumber": "77"}, terminal: "POS-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: burger})
	f.cart(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: withMods(burger, cheese)})
	f.cart(t, request{method: http.MethodPut, path: "/api/v1/cart/order-type", body: gin.H{"orderType": "delivery"}})

	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/cart/checkout", body: gin.H{"orderNumber": "77", "priority": "vip"}, terminal: "POS-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Order  cardJSON `json:"order"`
		Totals struct {
			Total string `json:"total"`
		} `json:"totals"`
	}
	decode(t, w, &resp)

	assert.Equal(t, models.OrderTypeDelivery, resp.Order.OrderType)
	assert.Equal(t, models.PriorityVIP, resp.Order.Priority)
	assert.Equal(t, "pos:POS-1", resp.Order.Source)
	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, "Grill", resp.Order.Items[0].Station)
	assert.Equal(t, []string{"Extra cheese"}, resp.Order.Items[1].Modifiers)
	assert.Equal(t, "19.8", resp.Totals.Total)

	c := f.cart(t, request{method: http.MethodGet, path: "/api/v1/cart"})
	assert.Empty(t, c.Lines)

	stored, err := f.kitchen.Get(resp.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueue, stored.Status)
}

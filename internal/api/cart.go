package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"efficiensa/internal/auth"
	"efficiensa/internal/cart"
	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

type modifierRequest struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type addItemRequest struct {
	ID        string            `json:"id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	Price     decimal.Decimal   `json:"price"`
	Image     string            `json:"image"`
	Category  string            `json:"category"`
	Modifiers []modifierRequest `json:"modifiers" validate:"dive"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type orderTypeRequest struct {
	OrderType string `json:"orderType" validate:"required,oneof=dine-in takeout delivery"`
}

type checkoutRequest struct {
	OrderNumber string `json:"orderNumber" validate:"required"`
	TableName   string `json:"tableName"`
	Priority    string `json:"priority" validate:"omitempty,oneof=normal vip rush"`
	Server      string `json:"server"`
	Notes       string `json:"notes"`
}

type cartResponse struct {
	cart.State
	cart.Totals
	ItemCount int `json:"itemCount"`
}

func newCartResponse(s cart.State) cartResponse {
	count := 0
	for _, l := range s.Lines {
		count += l.Quantity
	}
	return cartResponse{State: s, Totals: cart.Calculate(s.Lines), ItemCount: count}
}

// Cart handlers. Each terminal has its own cart.

func (k *KitchenAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(k.Carts.Get(auth.TerminalFrom(c))))
}

func (k *KitchenAPI) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if !k.bind(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	action := cart.AddItem{
		Item: models.MenuItem{
			ID:       req.ID,
			Name:     req.Name,
			Price:    req.Price,
			Image:    req.Image,
			Category: req.Category,
		},
	}
	for _, m := range req.Modifiers {
		action.Modifiers = append(action.Modifiers, models.Modifier{ID: m.ID, Name: m.Name, Price: m.Price})
	}
	k.dispatch(c, action)
}

func (k *KitchenAPI) RemoveCartItem(c *gin.Context) {
	k.dispatch(c, cart.RemoveItem{ItemID: c.Param("itemId")})
}

func (k *KitchenAPI) UpdateCartItem(c *gin.Context) {
	var req quantityRequest
	if !k.bind(c, &req) {
		return
	}
	k.dispatch(c, cart.UpdateQuantity{ItemID: c.Param("itemId"), Quantity: req.Quantity})
}

func (k *KitchenAPI) RemoveCartLine(c *gin.Context) {
	k.dispatch(c, cart.RemoveLine{Key: c.Param("key")})
}

func (k *KitchenAPI) UpdateCartLine(c *gin.Context) {
	var req quantityRequest
	if !k.bind(c, &req) {
		return
	}
	k.dispatch(c, cart.UpdateLineQuantity{Key: c.Param("key"), Quantity: req.Quantity})
}

func (k *KitchenAPI) SetCartOrderType(c *gin.Context) {
	var req orderTypeRequest
	if !k.bind(c, &req) {
		return
	}
	k.dispatch(c, cart.SetOrderType{OrderType: models.OrderType(req.OrderType)})
}

func (k *KitchenAPI) ClearCart(c *gin.Context) {
	k.dispatch(c, cart.ClearCart{})
}

// Checkout sends the terminal's cart to the kitchen and empties it
func (k *KitchenAPI) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !k.bind(c, &req) {
		return
	}

	terminal := auth.TerminalFrom(c)
	state := k.Carts.Get(terminal)
	if len(state.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	orderType := state.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}
	create := kitchen.CreateOrder{
		OrderNumber: req.OrderNumber,
		TableName:   req.TableName,
		OrderType:   string(orderType),
		Priority:    req.Priority,
		Source:      "pos:" + terminal,
		Server:      req.Server,
		Notes:       req.Notes,
	}
	for _, l := range state.Lines {
		item := kitchen.CreateItem{
			ID:       l.Key,
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Station:  l.Item.Category,
		}
		for _, m := range l.Modifiers {
			item.Modifiers = append(item.Modifiers, m.Name)
		}
		create.Items = append(create.Items, item)
	}

	order, err := k.Kitchen.Create(c.Request.Context(), create)
	if err != nil {
		k.orderError(c, err)
		return
	}
	totals := cart.Calculate(state.Lines)
	k.Carts.Dispatch(terminal, cart.ClearCart{})

	k.Log.Info("cart_checkout", "Cart sent to kitchen", requestID(c), map[string]interface{}{
		"terminal": terminal,
		"order_id": order.ID,
		"total":    totals.Total.StringFixed(2),
	})
	c.JSON(http.StatusCreated, gin.H{
		"order":  k.card(order),
		"totals": totals,
	})
}

func (k *KitchenAPI) dispatch(c *gin.Context, a cart.Action) {
	state := k.Carts.Dispatch(auth.TerminalFrom(c), a)
	c.JSON(http.StatusOK, newCartResponse(state))
}

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

// Order handlers

func (k *KitchenAPI) CreateOrder(c *gin.Context) {
	var req kitchen.CreateOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := k.Kitchen.Create(c.Request.Context(), req)
	if err != nil {
		k.orderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, k.card(order))
}

func (k *KitchenAPI) ListOrders(c *gin.Context) {
	view, err := kitchen.ParseView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := k.Kitchen.Board(view, c.Query("station"))
	if err != nil {
		k.orderError(c, err)
		return
	}

	if s := c.Query("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		board = board.OnlyStatus(status)
	}
	c.JSON(http.StatusOK, board)
}

func (k *KitchenAPI) GetBoard(c *gin.Context) {
	view, err := kitchen.ParseView(c.Param("view"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	board, err := k.Kitchen.Board(view, c.Query("station"))
	if err != nil {
		k.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (k *KitchenAPI) GetOrder(c *gin.Context) {
	order, err := k.Kitchen.Get(c.Param("id"))
	if err != nil {
		k.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, k.card(order))
}

func (k *KitchenAPI) BumpOrder(c *gin.Context) {
	k.transition(c, k.Kitchen.Bump)
}

func (k *KitchenAPI) RecallOrder(c *gin.Context) {
	k.transition(c, k.Kitchen.Recall)
}

func (k *KitchenAPI) DelayOrder(c *gin.Context) {
	k.transition(c, k.Kitchen.FlagDelayed)
}

func (k *KitchenAPI) AcknowledgeOrder(c *gin.Context) {
	k.transition(c, k.Kitchen.Acknowledge)
}

func (k *KitchenAPI) ToggleItem(c *gin.Context) {
	itemID := c.Param("itemId")
	k.transition(c, func(ctx context.Context, id string) (*models.Order, bool, error) {
		return k.Kitchen.ToggleItem(ctx, id, itemID)
	})
}

type priorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=normal vip rush"`
}

func (k *KitchenAPI) UpgradePriority(c *gin.Context) {
	var req priorityRequest
	if !k.bind(c, &req) {
		return
	}
	k.transition(c, func(ctx context.Context, id string) (*models.Order, bool, error) {
		return k.Kitchen.UpgradePriority(ctx, id, models.Priority(req.Priority))
	})
}

// PurgeHistory deletes completed orders. With no "before" query every completed order goes.
func (k *KitchenAPI) PurgeHistory(c *gin.Context) {
	before := k.Kitchen.Now()
	if s := c.Query("before"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
			return
		}
		before = t
	}

	n, err := k.Kitchen.PurgeHistory(before)
	if err != nil {
		k.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

type transitionFunc func(ctx context.Context, id string) (*models.Order, bool, error)

// transition applies a lifecycle event. An event that does not apply still
// answers 200 with changed=false and the order as it was.
func (k *KitchenAPI) transition(c *gin.Context, fn transitionFunc) {
	order, changed, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		k.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":   k.card(order),
		"changed": changed,
	})
}

func (k *KitchenAPI) card(o *models.Order) kitchen.Card {
	return kitchen.Card{Order: o, Badge: kitchen.BadgeOf(o, k.Kitchen.Now(), k.Kitchen.Thresholds())}
}

func (k *KitchenAPI) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, kitchen.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, kitchen.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		k.Log.Error("order_error", "Order request failed", requestID(c), map[string]interface{}{
			"path": c.Request.URL.Path,
		}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

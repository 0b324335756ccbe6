package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"efficiensa/internal/auth"
	"efficiensa/internal/cart"
	"efficiensa/internal/clock"
	"efficiensa/internal/display"
	"efficiensa/internal/kitchen"
	"efficiensa/internal/logger"
	"efficiensa/internal/monitoring"
	"efficiensa/internal/settings"
)

// KitchenAPI represents the main API handler for the kitchen displays
type KitchenAPI struct {
	Router  *gin.Engine
	Kitchen *kitchen.Service
	Carts   *cart.Carts
	State   *settings.AppState
	Rotator *display.Rotator
	Auth    *auth.Authenticator
	Monitor *monitoring.Monitor
	Ticker  *clock.Ticker
	Log     logger.Logger

	validate  *validator.Validate
	devicesMu sync.Mutex
}

// Deps are the services the API is built on
type Deps struct {
	Kitchen *kitchen.Service
	Carts   *cart.Carts
	State   *settings.AppState
	Rotator *display.Rotator
	Auth    *auth.Authenticator
	Monitor *monitoring.Monitor
	Ticker  *clock.Ticker
	Log     logger.Logger
}

// NewKitchenAPI creates a new kitchen API instance
func NewKitchenAPI(deps Deps) *KitchenAPI {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Carts == nil {
		deps.Carts = cart.NewCarts()
	}
	if deps.Monitor == nil {
		deps.Monitor = monitoring.NewMonitor()
	}

	router := gin.New()
	router.Use(RequestLogger(deps.Log), Recovery(deps.Log))

	api := &KitchenAPI{
		Router:   router,
		Kitchen:  deps.Kitchen,
		Carts:    deps.Carts,
		State:    deps.State,
		Rotator:  deps.Rotator,
		Auth:     deps.Auth,
		Monitor:  deps.Monitor,
		Ticker:   deps.Ticker,
		Log:      deps.Log,
		validate: validator.New(),
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	// Health check
	k.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Efficiensa KDS API is running"})
	})

	k.Router.GET("/ws", k.Auth.Middleware(), k.HandleWebSocket)
	k.Router.POST("/api/v1/auth/login", k.Auth.LenientMiddleware(), k.Login)

	admin := auth.RequireAdmin()
	v1 := k.Router.Group("/api/v1")
	v1.Use(k.Auth.Middleware())
	{
		// Auth
		v1.POST("/auth/logout", k.Logout)
		v1.GET("/auth/me", k.Me)

		// Orders
		v1.POST("/orders", k.CreateOrder)
		v1.GET("/orders", k.ListOrders)
		v1.GET("/orders/:id", k.GetOrder)
		v1.POST("/orders/:id/bump", k.BumpOrder)
		v1.POST("/orders/:id/recall", k.RecallOrder)
		v1.POST("/orders/:id/delay", k.DelayOrder)
		v1.POST("/orders/:id/acknowledge", k.AcknowledgeOrder)
		v1.POST("/orders/:id/items/:itemId/toggle", k.ToggleItem)
		v1.PATCH("/orders/:id/priority", k.UpgradePriority)
		v1.GET("/board/:view", k.GetBoard)
		v1.DELETE("/history", admin, k.PurgeHistory)

		// Cart
		v1.GET("/cart", k.GetCart)
		v1.POST("/cart/items", k.AddCartItem)
		v1.DELETE("/cart/items/:itemId", k.RemoveCartItem)
		v1.PATCH("/cart/items/:itemId", k.UpdateCartItem)
		v1.DELETE("/cart/lines/:key", k.RemoveCartLine)
		v1.PATCH("/cart/lines/:key", k.UpdateCartLine)
		v1.PUT("/cart/order-type", k.SetCartOrderType)
		v1.POST("/cart/checkout", k.Checkout)
		v1.DELETE("/cart", k.ClearCart)

		// Settings
		v1.GET("/settings", k.GetSettings)
		v1.GET("/settings/theme", k.GetTheme)
		v1.PUT("/settings/theme", k.SetTheme)
		v1.GET("/settings/language", k.GetLanguage)
		v1.PUT("/settings/language", k.SetLanguage)
		v1.GET("/settings/onboarding", k.GetOnboarding)
		v1.PUT("/settings/onboarding", k.SetOnboarding)
		v1.GET("/settings/app", k.GetAppSettings)
		v1.PUT("/settings/app", admin, k.SetAppSettings)
		v1.POST("/settings/reset", admin, k.ResetTerminal)

		// Terminal
		v1.GET("/terminal", k.GetTerminal)
		v1.PUT("/terminal", admin, k.SetTerminal)
		v1.GET("/terminal/qr", k.GetTerminalQR)

		// Display rotation
		v1.GET("/display", k.GetDisplayConfig)
		v1.PUT("/display", admin, k.SetDisplayConfig)
		v1.GET("/display/current", k.GetCurrentScreen)
		v1.POST("/display/next", k.NextScreen)
		v1.POST("/display/pause", k.PauseDisplay)
		v1.POST("/display/resume", k.ResumeDisplay)

		// Devices
		v1.GET("/devices", k.ListDevices)
		v1.POST("/devices", admin, k.AddDevice)
		v1.PUT("/devices/:id", admin, k.UpdateDevice)
		v1.DELETE("/devices/:id", admin, k.DeleteDevice)
		v1.POST("/devices/:id/test", admin, k.TestDevice)

		// Monitoring
		v1.GET("/metrics", k.GetMetrics)
	}
}

// Auth handlers

type loginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (k *KitchenAPI) Login(c *gin.Context) {
	var req loginRequest
	if !k.bind(c, &req) {
		return
	}

	token, claims, err := k.Auth.Login(req.PIN, auth.TerminalFrom(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}

	k.Log.Info("admin_login", "Admin logged in", requestID(c), map[string]interface{}{"terminal": claims.Terminal})
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user":      auth.UserOf(claims),
		"expiresAt": claims.ExpiresAt,
	})
}

func (k *KitchenAPI) Logout(c *gin.Context) {
	if claims := auth.ClaimsFrom(c); claims != nil {
		k.Auth.Revoke(claims)
	}
	c.JSON(http.StatusOK, gin.H{"user": auth.UserOf(nil)})
}

func (k *KitchenAPI) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user":     auth.UserFrom(c),
		"terminal": auth.TerminalFrom(c),
	})
}

// Monitoring handlers

func (k *KitchenAPI) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, k.Monitor.Snapshot())
}

// bind decodes and validates a JSON body, writing a 400 on failure
func (k *KitchenAPI) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := k.validate.Struct(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

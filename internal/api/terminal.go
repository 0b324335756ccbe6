package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"efficiensa/internal/settings"
)

type terminalRequest struct {
	Code string `json:"code" validate:"required"`
}

// terminalQR is the payload a terminal scans during setup
type terminalQR struct {
	TerminalCode string `json:"terminalCode"`
}

// Terminal handlers

func (k *KitchenAPI) GetTerminal(c *gin.Context) {
	ctx := c.Request.Context()
	code := k.State.TerminalCode(ctx)
	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"registered": code != "",
		"onboarded":  k.State.Onboarded(ctx),
	})
}

func (k *KitchenAPI) SetTerminal(c *gin.Context) {
	var req terminalRequest
	if !k.bind(c, &req) {
		return
	}
	code := settings.FormatTerminalCode(req.Code)
	if !settings.ValidTerminalCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Terminal code must have the format XXXX-XXXX-XXXX"})
		return
	}
	if err := k.State.SetTerminalCode(c.Request.Context(), code); err != nil {
		k.settingsError(c, "terminal", err)
		return
	}
	k.Log.Info("terminal_registered", "Terminal code saved", requestID(c), map[string]interface{}{"terminal": code})
	k.GetTerminal(c)
}

// GetTerminalQR renders the registration QR code as a PNG
func (k *KitchenAPI) GetTerminalQR(c *gin.Context) {
	code := k.State.TerminalCode(c.Request.Context())
	if code == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Terminal is not registered"})
		return
	}

	size := 256
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 1024 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 64 and 1024"})
			return
		}
		size = n
	}

	payload, err := json.Marshal(terminalQR{TerminalCode: code})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR payload"})
		return
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		k.Log.Error("qr_failed", "Failed to render QR code", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

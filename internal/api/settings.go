package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"efficiensa/internal/models"
)

type themeRequest struct {
	Theme string `json:"theme" validate:"required"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en es fr pt it"`
}

type onboardingRequest struct {
	Completed bool `json:"completed"`
}

// Settings handlers

func (k *KitchenAPI) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	theme := k.State.Theme(ctx)
	c.JSON(http.StatusOK, gin.H{
		"theme":       theme,
		"colors":      models.Themes[theme],
		"language":    k.State.Language(ctx),
		"onboarded":   k.State.Onboarded(ctx),
		"terminal":    k.State.TerminalCode(ctx),
		"appSettings": k.State.AppSettings(ctx),
	})
}

func (k *KitchenAPI) GetTheme(c *gin.Context) {
	theme := k.State.Theme(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"theme": theme, "colors": models.Themes[theme]})
}

func (k *KitchenAPI) SetTheme(c *gin.Context) {
	var req themeRequest
	if !k.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := k.State.SetTheme(ctx, models.ThemeName(req.Theme)); err != nil {
		k.settingsError(c, "theme", err)
		return
	}
	k.GetTheme(c)
}

func (k *KitchenAPI) GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"language":  k.State.Language(c.Request.Context()),
		"available": models.Languages,
	})
}

func (k *KitchenAPI) SetLanguage(c *gin.Context) {
	var req languageRequest
	if !k.bind(c, &req) {
		return
	}
	if err := k.State.SetLanguage(c.Request.Context(), req.Language); err != nil {
		k.settingsError(c, "language", err)
		return
	}
	k.GetLanguage(c)
}

func (k *KitchenAPI) GetOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"completed": k.State.Onboarded(c.Request.Context())})
}

func (k *KitchenAPI) SetOnboarding(c *gin.Context) {
	var req onboardingRequest
	if !k.bind(c, &req) {
		return
	}
	if err := k.State.SetOnboarded(c.Request.Context(), req.Completed); err != nil {
		k.settingsError(c, "onboarding", err)
		return
	}
	k.GetOnboarding(c)
}

func (k *KitchenAPI) GetAppSettings(c *gin.Context) {
	c.JSON(http.StatusOK, k.State.AppSettings(c.Request.Context()))
}

// SetAppSettings merges the body over the stored settings, so omitted fields keep their value
func (k *KitchenAPI) SetAppSettings(c *gin.Context) {
	ctx := c.Request.Context()
	current := k.State.AppSettings(ctx)
	if err := c.ShouldBindJSON(&current); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if current.AutoLogoutMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "autoLogoutMinutes must not be negative"})
		return
	}
	if err := k.State.SetAppSettings(ctx, current); err != nil {
		k.settingsError(c, "app", err)
		return
	}
	c.JSON(http.StatusOK, k.State.AppSettings(ctx))
}

// ResetTerminal clears registration and onboarding so the terminal starts over
func (k *KitchenAPI) ResetTerminal(c *gin.Context) {
	ctx := c.Request.Context()
	if err := k.State.Reset(ctx); err != nil {
		k.settingsError(c, "reset", err)
		return
	}
	k.Log.Info("terminal_reset", "Terminal reset", requestID(c), nil)
	c.JSON(http.StatusOK, gin.H{
		"terminal":  k.State.TerminalCode(ctx),
		"completed": k.State.Onboarded(ctx),
	})
}

func (k *KitchenAPI) settingsError(c *gin.Context, setting string, err error) {
	k.Log.Error("settings_error", "Failed to save setting", requestID(c), map[string]interface{}{
		"setting": setting,
	}, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save " + setting})
}

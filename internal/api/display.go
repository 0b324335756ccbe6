package api

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"efficiensa/internal/models"
)

// Display handlers

func (k *KitchenAPI) GetDisplayConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config":          k.State.DisplayConfig(c.Request.Context()),
		"durationOptions": models.DurationOptions,
	})
}

func (k *KitchenAPI) SetDisplayConfig(c *gin.Context) {
	var cfg models.DisplayConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateScreens(cfg.Screens); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := k.State.SetDisplayConfig(ctx, cfg); err != nil {
		k.settingsError(c, "display", err)
		return
	}
	saved := k.State.DisplayConfig(ctx)
	k.Rotator.Configure(saved, k.Kitchen.Now())
	c.JSON(http.StatusOK, gin.H{
		"config":  saved,
		"current": k.Rotator.Current(k.Kitchen.Now()),
	})
}

func (k *KitchenAPI) GetCurrentScreen(c *gin.Context) {
	c.JSON(http.StatusOK, k.Rotator.Current(k.Kitchen.Now()))
}

func (k *KitchenAPI) NextScreen(c *gin.Context) {
	c.JSON(http.StatusOK, k.Rotator.Next(k.Kitchen.Now()))
}

func (k *KitchenAPI) PauseDisplay(c *gin.Context) {
	c.JSON(http.StatusOK, k.Rotator.Pause(k.Kitchen.Now()))
}

func (k *KitchenAPI) ResumeDisplay(c *gin.Context) {
	c.JSON(http.StatusOK, k.Rotator.Resume(k.Kitchen.Now()))
}

func validateScreens(screens []models.ScreenConfig) error {
	known := make(map[string]bool)
	for _, s := range models.DefaultScreens() {
		known[s.ID] = true
	}
	for _, s := range screens {
		if !known[s.ID] {
			return fmt.Errorf("unknown screen %q", s.ID)
		}
		if !slices.Contains(models.DurationOptions, s.Duration) {
			return fmt.Errorf("screen %q: duration %d is not one of %v", s.ID, s.Duration, models.DurationOptions)
		}
	}
	return nil
}

package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"

	"efficiensa/internal/models"
)

const deviceDialTimeout = 2 * time.Second

type deviceRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	Type           string `json:"type" validate:"required,oneof=kds-monitor expo-display order-display bump-bar touch-screen external-monitor"`
	IPAddress      string `json:"ipAddress" validate:"omitempty,ip"`
	Port           string `json:"port" validate:"omitempty,numeric"`
	Resolution     string `json:"resolution"`
	AssignedScreen string `json:"assignedScreen" validate:"omitempty,oneof=queue cooking expo kitchen delayed history all"`
}

// deviceUpdate changes everything except the device type
type deviceUpdate struct {
	Name           string `json:"name" validate:"omitempty,max=64"`
	IPAddress      string `json:"ipAddress" validate:"omitempty,ip"`
	Port           string `json:"port" validate:"omitempty,numeric"`
	Resolution     string `json:"resolution"`
	AssignedScreen string `json:"assignedScreen" validate:"omitempty,oneof=queue cooking expo kitchen delayed history all"`
}

// Device handlers

func (k *KitchenAPI) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, k.State.Devices(c.Request.Context()))
}

func (k *KitchenAPI) AddDevice(c *gin.Context) {
	var req deviceRequest
	if !k.bind(c, &req) {
		return
	}

	var device models.Device
	if err := copier.Copy(&device, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device.Type = models.DeviceType(req.Type)
	category, ok := models.CategoryOf(device.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown device type"})
		return
	}
	device.Category = category
	device.Status = models.DeviceDisconnected
	if device.AssignedScreen == "" && device.HasDisplay() {
		device.AssignedScreen = "all"
	}

	k.devicesMu.Lock()
	defer k.devicesMu.Unlock()

	ctx := c.Request.Context()
	devices := k.State.Devices(ctx)
	device.ID = uniqueDeviceID(device.Name, devices)
	devices = append(devices, device)
	if err := k.State.SetDevices(ctx, devices); err != nil {
		k.settingsError(c, "devices", err)
		return
	}

	k.Log.Info("device_added", "Device added", requestID(c), map[string]interface{}{
		"device_id": device.ID,
		"type":      device.Type,
	})
	c.JSON(http.StatusCreated, device)
}

func (k *KitchenAPI) UpdateDevice(c *gin.Context) {
	var req deviceUpdate
	if !k.bind(c, &req) {
		return
	}

	k.devicesMu.Lock()
	defer k.devicesMu.Unlock()

	ctx := c.Request.Context()
	devices := k.State.Devices(ctx)
	i := findDevice(devices, c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	if err := copier.CopyWithOption(&devices[i], &req, copier.Option{IgnoreEmpty: true}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := k.State.SetDevices(ctx, devices); err != nil {
		k.settingsError(c, "devices", err)
		return
	}
	c.JSON(http.StatusOK, devices[i])
}

func (k *KitchenAPI) DeleteDevice(c *gin.Context) {
	k.devicesMu.Lock()
	defer k.devicesMu.Unlock()

	ctx := c.Request.Context()
	devices := k.State.Devices(ctx)
	i := findDevice(devices, c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	devices = append(devices[:i], devices[i+1:]...)
	if err := k.State.SetDevices(ctx, devices); err != nil {
		k.settingsError(c, "devices", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device removed"})
}

// TestDevice opens a TCP connection to the device and records whether it answered
func (k *KitchenAPI) TestDevice(c *gin.Context) {
	ctx := c.Request.Context()

	k.devicesMu.Lock()
	devices := k.State.Devices(ctx)
	i := findDevice(devices, c.Param("id"))
	k.devicesMu.Unlock()
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	device := devices[i]
	if device.IPAddress == "" || device.Port == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device has no network address"})
		return
	}

	status := models.DeviceConnected
	dialCtx, cancel := context.WithTimeout(ctx, deviceDialTimeout)
	conn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", net.JoinHostPort(device.IPAddress, device.Port))
	cancel()
	if err != nil {
		status = models.DeviceError
	} else {
		conn.Close()
	}

	k.devicesMu.Lock()
	defer k.devicesMu.Unlock()

	devices = k.State.Devices(ctx)
	if i = findDevice(devices, device.ID); i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	devices[i].Status = status
	if err := k.State.SetDevices(ctx, devices); err != nil {
		k.settingsError(c, "devices", err)
		return
	}
	c.JSON(http.StatusOK, devices[i])
}

func findDevice(devices []models.Device, id string) int {
	for i := range devices {
		if devices[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueDeviceID slugs the device name and appends a counter until the id is free
func uniqueDeviceID(name string, devices []models.Device) string {
	base := slug.Make(name)
	if base == "" {
		base = "device"
	}
	taken := make(map[string]bool, len(devices))
	for _, d := range devices {
		taken[d.ID] = true
	}
	id := base
	for n := 2; taken[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

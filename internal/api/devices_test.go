package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

func (f *fixture) addDevice(t *testing.T, token string, body gin.H) models.Device {
	t.Helper()
	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/devices", body: body, token: token})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d models.Device
	decode(t, w, &d)
	return d
}

func TestDevices_AddAssignsSlugIDsAndCategory(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	first := f.addDevice(t, token, gin.H{"name": "Grill Monitor", "type": "kds-monitor", "ipAddress": "192.168.1.20", "port": "8080"})
	assert.Equal(t, "grill-monitor", first.ID)
	assert.Equal(t, "Kitchen Display", first.Category)
	assert.Equal(t, models.DeviceDisconnected, first.Status)
	assert.Equal(t, "all", first.AssignedScreen)

	second := f.addDevice(t, token, gin.H{"name": "Grill Monitor", "type": "kds-monitor"})
	assert.Equal(t, "grill-monitor-2", second.ID)

	bar := f.addDevice(t, token, gin.H{"name": "Bump Bar", "type": "bump-bar"})
	assert.Equal(t, "Input Device", bar.Category)
	assert.Empty(t, bar.AssignedScreen)

	w := f.do(t, request{method: http.MethodGet, path: "/api/v1/devices"})
	require.Equal(t, http.StatusOK, w.Code)
	var devices []models.Device
	decode(t, w, &devices)
	assert.Len(t, devices, 3)
}

func TestDevices_Validation(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/devices", body: gin.H{"name": "X", "type": "kds-monitor"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, body := range []gin.H{
		{"type": "kds-monitor"},
		{"name": "X", "type": "toaster"},
		{"name": "X", "type": "kds-monitor", "ipAddress": "not-an-ip"},
		{"name": "X", "type": "kds-monitor", "assignedScreen": "lobby"},
	} {
		w := f.do(t, request{method: http.MethodPost, path: "/api/v1/devices", body: body, token: token})
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestDevices_UpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)
	d := f.addDevice(t, token, gin.H{"name": "Expo", "type": "expo-display", "ipAddress": "10.0.0.5", "port": "9000"})

	w := f.do(t, request{method: http.MethodPut, path: "/api/v1/devices/" + d.ID, body: gin.H{"assignedScreen": "expo"}, token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Device
	decode(t, w, &updated)
	assert.Equal(t, "expo", updated.AssignedScreen)
	assert.Equal(t, "Expo", updated.Name)
	assert.Equal(t, "10.0.0.5", updated.IPAddress)
	assert.Equal(t, models.DeviceExpoDisplay, updated.Type)

	w = f.do(t, request{method: http.MethodPut, path: "/api/v1/devices/nope", body: gin.H{"name": "x"}, token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevices_Delete(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)
	a := f.addDevice(t, token, gin.H{"name": "A", "type": "touch-screen"})
	f.addDevice(t, token, gin.H{"name": "B", "type": "touch-screen"})

	w := f.do(t, request{method: http.MethodDelete, path: "/api/v1/devices/" + a.ID, token: token})
	require.Equal(t, http.StatusOK, w.Code)

	devices := f.state.Devices(context.Background())
	require.Len(t, devices, 1)
	assert.Equal(t, "b", devices[0].ID)

	w = f.do(t, request{method: http.MethodDelete, path: "/api/v1/devices/" + a.ID, token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevices_TestConnection(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	up := f.addDevice(t, token, gin.H{"name": "Up", "type": "kds-monitor", "ipAddress": "127.0.0.1", "port": port})
	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/devices/" + up.ID + "/test", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var d models.Device
	decode(t, w, &d)
	assert.Equal(t, models.DeviceConnected, d.Status)

	// a listener that is closed straight away refuses the connection
	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadPort := strconv.Itoa(closed.Addr().(*net.TCPAddr).Port)
	closed.Close()

	down := f.addDevice(t, token, gin.H{"name": "Down", "type": "kds-monitor", "ipAddress": "127.0.0.1", "port": deadPort})
	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/devices/" + down.ID + "/test", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &d)
	assert.Equal(t, models.DeviceError, d.Status)

	noAddr := f.addDevice(t, token, gin.H{"name": "Local", "type": "touch-screen"})
	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/devices/" + noAddr.ID + "/test", token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

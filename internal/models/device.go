package models

// DeviceType represents the kind of hardware attached to a kitchen terminal
type DeviceType string

const (
	DeviceKDSMonitor      DeviceType = "kds-monitor"
	DeviceExpoDisplay     DeviceType = "expo-display"
	DeviceOrderDisplay    DeviceType = "order-display"
	DeviceBumpBar         DeviceType = "bump-bar"
	DeviceTouchScreen     DeviceType = "touch-screen"
	DeviceExternalMonitor DeviceType = "external-monitor"
)

// DeviceStatus represents the connection state of a device
type DeviceStatus string

const (
	DeviceConnected    DeviceStatus = "connected"
	DeviceDisconnected DeviceStatus = "disconnected"
	DeviceError        DeviceStatus = "error"
)

// deviceCategories maps each device type to the label shown in device management
var deviceCategories = map[DeviceType]string{
	DeviceKDSMonitor:      "Kitchen Display",
	DeviceExpoDisplay:     "Expeditor Station",
	DeviceOrderDisplay:    "Line Cook Station",
	DeviceBumpBar:         "Input Device",
	DeviceTouchScreen:     "Interactive Display",
	DeviceExternalMonitor: "Secondary Display",
}

// Device represents a configured display or input device
type Device struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           DeviceType   `json:"type"`
	Category       string       `json:"category"`
	Status         DeviceStatus `json:"status"`
	IPAddress      string       `json:"ipAddress,omitempty"`
	Port           string       `json:"port,omitempty"`
	Resolution     string       `json:"resolution,omitempty"`
	AssignedScreen string       `json:"assignedScreen,omitempty"`
}

// CategoryOf returns the category label for a device type
func CategoryOf(t DeviceType) (string, bool) {
	c, ok := deviceCategories[t]
	return c, ok
}

// HasDisplay reports whether the device renders a screen. Bump bars are input only.
func (d Device) HasDisplay() bool {
	return d.Type != DeviceBumpBar
}

package models

// AppSettings represents the terminal preferences stored as one JSON document
type AppSettings struct {
	DarkMode              bool   `json:"darkMode"`
	SoundEnabled          bool   `json:"soundEnabled"`
	AutoLogoutMinutes     int    `json:"autoLogoutMinutes"`
	Language              string `json:"language"`
	ReceiptPrinterEnabled bool   `json:"receiptPrinterEnabled"`
	KitchenDisplayEnabled bool   `json:"kitchenDisplayEnabled"`
}

// DefaultAppSettings returns the preferences of a fresh terminal
func DefaultAppSettings() AppSettings {
	return AppSettings{
		SoundEnabled:      true,
		AutoLogoutMinutes: 30,
		Language:          "en",
	}
}

// ThemeName identifies a colour theme
type ThemeName string

// DefaultTheme is the brand theme applied when nothing valid is stored
const DefaultTheme ThemeName = "efficiensa"

// Theme represents the colours of a theme
type Theme struct {
	Name          string `json:"name"`
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	Success       string `json:"success"`
	Error         string `json:"error"`
	Warning       string `json:"warning"`
	Border        string `json:"border"`
}

// Themes lists the themes a terminal may select
var Themes = map[ThemeName]Theme{
	DefaultTheme: {
		Name:          "Efficiensa Blue",
		Primary:       "#162570",
		Secondary:     "#2B9EDE",
		Accent:        "#4F7DF3",
		Background:    "#F4F6FC",
		Surface:       "#FFFFFF",
		TextPrimary:   "#333333",
		TextSecondary: "#64748B",
		Success:       "#4CAF50",
		Error:         "#ff4444",
		Warning:       "#FF9800",
		Border:        "#E1E8F0",
	},
}

// Languages lists the supported interface languages
var Languages = []string{"en", "es", "fr", "pt", "it"}

package models

// TransitionType represents the animation used when a display rotates screens
type TransitionType string

const (
	TransitionFade  TransitionType = "fade"
	TransitionSlide TransitionType = "slide"
	TransitionNone  TransitionType = "none"
)

// ScreenConfig represents one rotating kitchen display screen
type ScreenConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Enabled  bool   `json:"enabled"`
	Duration int    `json:"duration"` // seconds
}

// DisplayConfig represents the rotation setup of a kitchen display
type DisplayConfig struct {
	Screens        []ScreenConfig `json:"screens"`
	TransitionType TransitionType `json:"transitionType"`
	AutoRotate     bool           `json:"autoRotate"`
}

// DurationOptions are the screen durations offered in display setup
var DurationOptions = []int{10, 15, 20, 30, 45, 60, 90, 120}

// DefaultScreens returns the built-in screen list
func DefaultScreens() []ScreenConfig {
	return []ScreenConfig{
		{ID: "queue", Name: "Orders Queue", Icon: "list-outline", Enabled: true, Duration: 30},
		{ID: "cooking", Name: "Cooking / In Progress", Icon: "flame-outline", Enabled: true, Duration: 30},
		{ID: "expo", Name: "Ready / Expo", Icon: "checkmark-circle-outline", Enabled: false, Duration: 30},
		{ID: "kitchen", Name: "Kitchen Orders", Icon: "restaurant-outline", Enabled: false, Duration: 30},
		{ID: "delayed", Name: "Delayed / Attention", Icon: "alert-circle-outline", Enabled: false, Duration: 30},
		{ID: "history", Name: "Completed / History", Icon: "time-outline", Enabled: false, Duration: 30},
	}
}

// DefaultDisplayConfig returns the configuration used before anything is saved
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Screens:        DefaultScreens(),
		TransitionType: TransitionFade,
		AutoRotate:     true,
	}
}

// EnabledScreens returns the screens that take part in rotation, in order
func (c DisplayConfig) EnabledScreens() []ScreenConfig {
	var out []ScreenConfig
	for _, s := range c.Screens {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// MergeDefaults keeps saved screens and fills in any built-in screen the saved
// config does not know about. Screen order follows the defaults.
func (c DisplayConfig) MergeDefaults() DisplayConfig {
	saved := make(map[string]ScreenConfig, len(c.Screens))
	for _, s := range c.Screens {
		saved[s.ID] = s
	}
	merged := DefaultScreens()
	for i, d := range merged {
		if s, ok := saved[d.ID]; ok {
			merged[i] = s
		}
	}
	c.Screens = merged
	switch c.TransitionType {
	case TransitionFade, TransitionSlide, TransitionNone:
	default:
		c.TransitionType = TransitionFade
	}
	return c
}

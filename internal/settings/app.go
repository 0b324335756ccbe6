package settings

import (
	"context"
	"errors"
	"slices"
	"strings"

	"efficiensa/internal/logger"
	"efficiensa/internal/models"
)

// Store keys. These match what terminals already have on disk.
const (
	KeyTheme         = "@app_theme"
	KeyLanguage      = "appLanguage"
	KeyOnboarding    = "hasCompletedOnboarding"
	KeyTerminalCode  = "terminalCode"
	KeyDisplayConfig = "kds_display_config"
	KeyDevices       = "configuredDevices"
	KeyAppSettings   = "@efficiensa_pos:settings"
)

// DefaultLanguage is used until a language is chosen
const DefaultLanguage = "en"

// ThemeState reads and changes the colour theme
type ThemeState interface {
	Theme(ctx context.Context) models.ThemeName
	SetTheme(ctx context.Context, name models.ThemeName) error
}

// LanguageState reads and changes the interface language
type LanguageState interface {
	Language(ctx context.Context) string
	SetLanguage(ctx context.Context, lang string) error
}

// TerminalState reads and changes terminal registration
type TerminalState interface {
	TerminalCode(ctx context.Context) string
	SetTerminalCode(ctx context.Context, code string) error
	Onboarded(ctx context.Context) bool
	SetOnboarded(ctx context.Context, done bool) error
	Reset(ctx context.Context) error
}

// AppState groups the persisted settings of a terminal. Handlers receive the
// narrow interface for the concern they touch.
type AppState struct {
	theme      *Setting[models.ThemeName]
	language   *Setting[string]
	onboarding *Setting[bool]
	terminal   *Setting[string]
	display    *Setting[models.DisplayConfig]
	devices    *Setting[[]models.Device]
	app        *Setting[models.AppSettings]
}

var (
	_ ThemeState    = (*AppState)(nil)
	_ LanguageState = (*AppState)(nil)
	_ TerminalState = (*AppState)(nil)
)

// AppOption customises an AppState
type AppOption func(*appOptions)

type appOptions struct {
	display models.DisplayConfig
}

// WithDisplayDefaults replaces the display config used before one is saved
func WithDisplayDefaults(cfg models.DisplayConfig) AppOption {
	return func(o *appOptions) { o.display = cfg }
}

// NewAppState binds every terminal setting to the store
func NewAppState(store Store, log logger.Logger, opts ...AppOption) *AppState {
	o := appOptions{display: models.DefaultDisplayConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return &AppState{
		theme: New[models.ThemeName](store, KeyTheme, models.DefaultTheme, StringCodec[models.ThemeName]{}, log,
			WithNormalize(normalizeTheme)),
		language: New[string](store, KeyLanguage, DefaultLanguage, StringCodec[string]{}, log,
			WithNormalize(normalizeLanguage)),
		onboarding: New[bool](store, KeyOnboarding, false, BoolCodec{}, log),
		terminal: New[string](store, KeyTerminalCode, "", StringCodec[string]{}, log,
			WithNormalize(NormalizeTerminalCode)),
		display: New[models.DisplayConfig](store, KeyDisplayConfig, o.display, JSONCodec[models.DisplayConfig]{}, log,
			WithNormalize(func(c models.DisplayConfig) models.DisplayConfig { return c.MergeDefaults() })),
		devices: New[[]models.Device](store, KeyDevices, []models.Device{}, JSONCodec[[]models.Device]{}, log),
		app: New[models.AppSettings](store, KeyAppSettings, models.DefaultAppSettings(),
			JSONCodec[models.AppSettings]{Base: models.DefaultAppSettings}, log),
	}
}

// Load reads every setting from the store
func (a *AppState) Load(ctx context.Context) {
	a.theme.Load(ctx)
	a.language.Load(ctx)
	a.onboarding.Load(ctx)
	a.terminal.Load(ctx)
	a.display.Load(ctx)
	a.devices.Load(ctx)
	a.app.Load(ctx)
}

func (a *AppState) Theme(ctx context.Context) models.ThemeName {
	return a.theme.Get(ctx)
}

func (a *AppState) SetTheme(ctx context.Context, name models.ThemeName) error {
	return a.theme.Set(ctx, name)
}

func (a *AppState) Language(ctx context.Context) string {
	return a.language.Get(ctx)
}

func (a *AppState) SetLanguage(ctx context.Context, lang string) error {
	return a.language.Set(ctx, lang)
}

func (a *AppState) TerminalCode(ctx context.Context) string {
	return a.terminal.Get(ctx)
}

func (a *AppState) SetTerminalCode(ctx context.Context, code string) error {
	return a.terminal.Set(ctx, code)
}

func (a *AppState) Onboarded(ctx context.Context) bool {
	return a.onboarding.Get(ctx)
}

func (a *AppState) SetOnboarded(ctx context.Context, done bool) error {
	return a.onboarding.Set(ctx, done)
}

// Reset unregisters the terminal so it goes through onboarding again
func (a *AppState) Reset(ctx context.Context) error {
	return errors.Join(a.onboarding.Clear(ctx), a.terminal.Clear(ctx))
}

func (a *AppState) DisplayConfig(ctx context.Context) models.DisplayConfig {
	return a.display.Get(ctx)
}

func (a *AppState) SetDisplayConfig(ctx context.Context, cfg models.DisplayConfig) error {
	return a.display.Set(ctx, cfg)
}

// Devices returns a copy of the configured devices that callers may modify
func (a *AppState) Devices(ctx context.Context) []models.Device {
	return slices.Clone(a.devices.Get(ctx))
}

func (a *AppState) SetDevices(ctx context.Context, devices []models.Device) error {
	return a.devices.Set(ctx, devices)
}

func (a *AppState) AppSettings(ctx context.Context) models.AppSettings {
	return a.app.Get(ctx)
}

func (a *AppState) SetAppSettings(ctx context.Context, s models.AppSettings) error {
	return a.app.Set(ctx, s)
}

func normalizeTheme(name models.ThemeName) models.ThemeName {
	if _, ok := models.Themes[name]; !ok {
		return models.DefaultTheme
	}
	return name
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !slices.Contains(models.Languages, lang) {
		return DefaultLanguage
	}
	return lang
}

// NormalizeTerminalCode trims and upper-cases a terminal code
func NormalizeTerminalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatTerminalCode keeps letters and digits, upper-cases them and groups
// them as XXXX-XXXX-XXXX. Anything past twelve characters is dropped.
func FormatTerminalCode(text string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToUpper(text) {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			continue
		}
		if n == 12 {
			break
		}
		if n > 0 && n%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// ValidTerminalCode reports whether code is a complete XXXX-XXXX-XXXX code
func ValidTerminalCode(code string) bool {
	return len(code) == 14 && FormatTerminalCode(code) == code
}

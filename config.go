package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Window size constants
const (
	defaultWidth  = 1200
	defaultHeight = 900
	minWidth      = 480
	minHeight     = 360
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// MouseSettings tunes pointer and wheel handling
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	InvertWheel      bool    `json:"invert_wheel"`
	DragThreshold    float64 `json:"drag_threshold"`
	EnableDragPan    bool    `json:"enable_drag_pan"`
}

// GetDefaultMouseSettings returns default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		InvertWheel:      false,
		DragThreshold:    5.0,
		EnableDragPan:    true,
	}
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth        int                 `json:"window_width"`
	WindowHeight       int                 `json:"window_height"`
	HelpFontSize       float64             `json:"help_font_size"`
	SortMethod         int                 `json:"sort_method"`
	Fullscreen         bool                `json:"fullscreen"`
	CacheSize          int                 `json:"cache_size"`
	PreloadEnabled     bool                `json:"preload_enabled"`
	PreloadCount       int                 `json:"preload_count"`
	LoaderWorkers      int                 `json:"loader_workers"`
	ZoomMin            float64             `json:"zoom_min"`
	ZoomMax            float64             `json:"zoom_max"`
	ZoomSensitivity    float64             `json:"zoom_sensitivity"`
	ThumbExtent        float64             `json:"thumb_extent"`
	StripStep          float64             `json:"strip_step"`
	ModalStripStep     float64             `json:"modal_strip_step"`
	ThumbRevealDelayMS int                 `json:"thumb_reveal_delay_ms"`
	ModalAttachDelayMS int                 `json:"modal_attach_delay_ms"`
	Keybindings        map[string][]string `json:"keybindings"`
	Mouse              MouseSettings       `json:"mouse"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		WindowWidth:        defaultWidth,
		WindowHeight:       defaultHeight,
		HelpFontSize:       20.0,
		SortMethod:         SortNatural,
		Fullscreen:         false,
		CacheSize:          32,
		PreloadEnabled:     true,
		PreloadCount:       defaultPreloadCount,
		LoaderWorkers:      2,
		ZoomMin:            defaultZoomMin,
		ZoomMax:            defaultZoomMax,
		ZoomSensitivity:    defaultZoomSensitivity,
		ThumbExtent:        defaultThumbExtent,
		StripStep:          defaultStripStep,
		ModalStripStep:     defaultModalStripStep,
		ThumbRevealDelayMS: int(defaultThumbRevealDelay / time.Millisecond),
		ModalAttachDelayMS: int(defaultModalAttachDelay / time.Millisecond),
		Keybindings:        GetDefaultKeybindings(),
		Mouse:              GetDefaultMouseSettings(),
	}
}

// GalleryConfig converts the relevant settings for the gallery
func (c Config) GalleryConfig() GalleryConfig {
	return GalleryConfig{
		Zoom: ZoomLimits{
			Min:         c.ZoomMin,
			Max:         c.ZoomMax,
			Sensitivity: c.ZoomSensitivity,
		},
		ThumbExtent:      c.ThumbExtent,
		StripStep:        c.StripStep,
		ModalStripStep:   c.ModalStripStep,
		ThumbRevealDelay: time.Duration(c.ThumbRevealDelayMS) * time.Millisecond,
		ModalAttachDelay: time.Duration(c.ModalAttachDelayMS) * time.Millisecond,
		PreloadCount:     c.PreloadCount,
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "pgv.json"
	}
	return filepath.Join(homeDir, ".pgv.json")
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := DefaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		warnLog("Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	result.Warnings = append(result.Warnings, validateConfig(&config)...)
	if len(result.Warnings) > 0 {
		result.Status = "Warning"
	}

	result.Config = config
	return result
}

// validateConfig clamps out-of-range values back to defaults and returns a
// warning for each problem that was not a plain clamp
func validateConfig(config *Config) []string {
	defaults := DefaultConfig()
	var warnings []string

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaults.WindowWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaults.WindowHeight
	}

	// Minimum 12px for readability
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = defaults.HelpFontSize
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	config.CacheSize = clampInt(config.CacheSize, 1, 128, defaults.CacheSize)
	config.PreloadCount = clampInt(config.PreloadCount, 1, 16, defaults.PreloadCount)
	config.LoaderWorkers = clampInt(config.LoaderWorkers, 1, 8, defaults.LoaderWorkers)

	if config.ZoomMin < 1.0 {
		config.ZoomMin = defaults.ZoomMin
	}
	if config.ZoomMax < config.ZoomMin {
		warnings = append(warnings, fmt.Sprintf("zoom_max %.2f below zoom_min %.2f, using defaults", config.ZoomMax, config.ZoomMin))
		config.ZoomMin = defaults.ZoomMin
		config.ZoomMax = defaults.ZoomMax
	}
	if config.ZoomSensitivity <= 0 || config.ZoomSensitivity > 0.05 {
		config.ZoomSensitivity = defaults.ZoomSensitivity
	}

	if config.ThumbExtent < 32 || config.ThumbExtent > 400 {
		config.ThumbExtent = defaults.ThumbExtent
	}
	if config.StripStep <= 0 {
		config.StripStep = defaults.StripStep
	}
	if config.ModalStripStep <= 0 {
		config.ModalStripStep = defaults.ModalStripStep
	}
	config.ThumbRevealDelayMS = clampInt(config.ThumbRevealDelayMS, 0, 5000, defaults.ThumbRevealDelayMS)
	config.ModalAttachDelayMS = clampInt(config.ModalAttachDelayMS, 0, 5000, defaults.ModalAttachDelayMS)

	if config.Mouse.WheelSensitivity <= 0 || config.Mouse.WheelSensitivity > 10 {
		config.Mouse.WheelSensitivity = defaults.Mouse.WheelSensitivity
	}
	if config.Mouse.DragThreshold < 0 {
		config.Mouse.DragThreshold = defaults.Mouse.DragThreshold
	}

	// Fill in missing keybindings with defaults, then check for conflicts
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		for action, defaultKeys := range GetDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			warnLog("Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
			warnings = append(warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	return warnings
}

// clampInt returns def when v is below lo and hi when v is above hi
func clampInt(v, lo, hi, def int) int {
	if v < lo {
		return def
	}
	if v > hi {
		return hi
	}
	return v
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		if _, known := actionIndex[action]; !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string like "Shift+Slash"
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	keyName := parts[len(parts)-1]
	if keyName == "" {
		return fmt.Errorf("empty key string")
	}
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", modifier)
		}
	}

	return nil
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		warnLog("Not saving config with invalid window size: %dx%d", config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		errorLog("Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		errorLog("Failed to save config to %s: %v", configPath, err)
	}
}

// Environment holds settings read from the process environment and .env
type Environment struct {
	APIURL         string
	ConsumerKey    string
	ConsumerSecret string
	KafkaBrokers   []string
	KafkaTopic     string
	LogLevel       string
	LogFormat      string
	Currency       string
}

// LoadEnvironment reads .env (if present) and the PGV_* variables
func LoadEnvironment() Environment {
	// A missing .env file is fine
	_ = godotenv.Load()

	return Environment{
		APIURL:         getEnv("PGV_API_URL", "http://localhost:8080/wp-json"),
		ConsumerKey:    getEnv("PGV_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("PGV_CONSUMER_SECRET", ""),
		KafkaBrokers:   splitList(getEnv("PGV_KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("PGV_KAFKA_TOPIC", "gallery-events"),
		LogLevel:       getEnv("PGV_LOG_LEVEL", "info"),
		LogFormat:      getEnv("PGV_LOG_FORMAT", "console"),
		Currency:       getEnv("PGV_CURRENCY", "AED"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

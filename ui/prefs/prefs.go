// Package prefs provides YAML-based application preferences.
package prefs

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"curve-viewer/internal/view"

	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const prefsFile = "preferences.yaml"

// Preference keys.
const (
	KeySnap          = "snap"
	KeyShowLocation  = "showLocation"
	KeyMarkClosest   = "markClosest"
	KeyHoverRadius   = "hoverRadius"
	KeyHistoryLimit  = "historyLimit"
	KeyHoverRateHz   = "hoverRateHz"
	KeyHoverDelayMs  = "hoverDelayMs"
	KeyLastExportDir = "lastExportDir"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/curve-viewer/preferences.yaml.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "curve-viewer", prefsFile))
}

// LoadFrom reads preferences from path. An unreadable or malformed file
// yields empty preferences that will be written back to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	if err := yaml.Unmarshal(data, &p.values); err != nil || p.values == nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := yaml.Marshal(p.values)
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := pathutils.MustDirExists(filepath.Dir(p.path)); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

func (p *Prefs) get(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Float returns a float64 preference, or 0 if not set.
func (p *Prefs) Float(key string) float64 {
	return p.FloatWithFallback(key, 0)
}

// FloatWithFallback returns a float64 preference, or fallback if not set or
// not numeric.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	v, ok := p.get(key)
	if !ok {
		return fallback
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return fallback
	}
	return f
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// Int returns an int preference, or fallback if not set or not numeric.
func (p *Prefs) Int(key string, fallback int) int {
	v, ok := p.get(key)
	if !ok {
		return fallback
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}
	return n
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	v, ok := p.get(key)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	v, ok := p.get(key)
	if !ok {
		return fallback
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}
	return b
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

// ViewerSettings builds the controller configuration, falling back to
// view.DefaultConfig for anything unset. A non-positive hover radius is
// replaced by the default.
func (p *Prefs) ViewerSettings() view.Config {
	def := view.DefaultConfig()
	cfg := view.Config{
		HoverRadius:  p.FloatWithFallback(KeyHoverRadius, def.HoverRadius),
		Snap:         p.Bool(KeySnap, def.Snap),
		ShowLocation: p.Bool(KeyShowLocation, def.ShowLocation),
		MarkClosest:  p.Bool(KeyMarkClosest, def.MarkClosest),
		HistoryLimit: p.Int(KeyHistoryLimit, def.HistoryLimit),
	}
	if cfg.HoverRadius <= 0 {
		cfg.HoverRadius = def.HoverRadius
	}
	return cfg
}

// SetViewerSettings stores cfg.
func (p *Prefs) SetViewerSettings(cfg view.Config) {
	p.SetFloat(KeyHoverRadius, cfg.HoverRadius)
	p.SetBool(KeySnap, cfg.Snap)
	p.SetBool(KeyShowLocation, cfg.ShowLocation)
	p.SetBool(KeyMarkClosest, cfg.MarkClosest)
	p.SetInt(KeyHistoryLimit, cfg.HistoryLimit)
}

// HoverThrottle returns the minimum interval between hover dispatches and
// the trailing delay after the last pointer move.
func (p *Prefs) HoverThrottle() (interval, delay time.Duration) {
	hz := p.FloatWithFallback(KeyHoverRateHz, 60)
	if hz <= 0 {
		hz = 60
	}
	ms := p.FloatWithFallback(KeyHoverDelayMs, 100)
	if ms < 0 {
		ms = 100
	}
	return time.Duration(float64(time.Second) / hz), time.Duration(ms * float64(time.Millisecond))
}

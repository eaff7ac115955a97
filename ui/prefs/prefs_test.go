package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"curve-viewer/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Equal(t, view.DefaultConfig(), p.ViewerSettings())
	assert.Equal(t, "", p.String(KeyLastExportDir))

	interval, delay := p.HoverThrottle()
	assert.Equal(t, time.Second/60, interval)
	assert.Equal(t, 100*time.Millisecond, delay)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := LoadFrom(path)
	cfg := view.Config{HoverRadius: 12.5, Snap: false, ShowLocation: true, MarkClosest: false, HistoryLimit: 8}
	p.SetViewerSettings(cfg)
	p.SetString(KeyLastExportDir, "/tmp/out")
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, cfg, q.ViewerSettings())
	assert.Equal(t, "/tmp/out", q.String(KeyLastExportDir))
}

func TestLooseTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	yml := "hoverRadius: \"15\"\nsnap: \"false\"\nhistoryLimit: 3.0\nhoverRateHz: 30\nhoverDelayMs: 0\nmarkClosest: maybe\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	p := LoadFrom(path)
	cfg := p.ViewerSettings()
	assert.Equal(t, 15.0, cfg.HoverRadius)
	assert.False(t, cfg.Snap)
	assert.Equal(t, 3, cfg.HistoryLimit)
	assert.True(t, cfg.MarkClosest, "unparseable values fall back")

	interval, delay := p.HoverThrottle()
	assert.Equal(t, time.Second/30, interval)
	assert.Equal(t, time.Duration(0), delay)
}

func TestInvalidRadiusFallsBack(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), prefsFile))
	p.SetFloat(KeyHoverRadius, -4)
	assert.Equal(t, view.DefaultConfig().HoverRadius, p.ViewerSettings().HoverRadius)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("snap: [unclosed\n"), 0o644))
	p := LoadFrom(path)
	assert.True(t, p.Bool(KeySnap, true))
	p.SetBool(KeySnap, false)
	assert.False(t, p.Bool(KeySnap, true))
}

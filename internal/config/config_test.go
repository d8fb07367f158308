package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dataset.DefaultLocation, c.DataURL)
	assert.Equal(t, uint64(0), c.Seed)
	assert.Equal(t, 10.0, c.MapRadiusScale)
	assert.Equal(t, 20.0, c.ChartRadiusScale)
	assert.Equal(t, 6, c.MapZoom)
	assert.Equal(t, 60, c.HTTPTimeoutSec)
	assert.Equal(t, 3, c.RetryMaxAttempts)
	assert.Equal(t, 500, c.RetryBaseDelayMs)
	assert.Equal(t, 4000, c.RetryMaxDelayMs)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.PopupIncludeRating)
	assert.True(t, c.ChartPopupIncludeRating)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 4\nmap_zoom: 9\nname_column: Site\n"), 0o644))
	t.Setenv("HOSPIVIZ_MAP_ZOOM", "11")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), c.Seed)
	assert.Equal(t, 11, c.MapZoom)
	assert.Equal(t, "Site", c.NameColumn)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("seed", "42"))
	require.NoError(t, c.Set("popup_include_rating", "true"))
	require.NoError(t, c.Set("delimiter", ";"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".hospiviz", "config.yaml"))
	require.NoError(t, err)

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), again.Seed)
	assert.True(t, again.PopupIncludeRating)
	assert.Equal(t, ";", again.Delimiter)
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	assert.Error(t, c.Set("seed", "-1"))
	assert.Error(t, c.Set("map_zoom", "six"))
	assert.Error(t, c.Set("map_radius_scale", "big"))
	assert.Error(t, c.Set("popup_include_rating", "maybe"))
	assert.Error(t, c.Set("api_key", "x"))
	assert.NoError(t, c.Set("map_radius_scale", "12.5"))
	assert.Equal(t, 12.5, c.MapRadiusScale)
}

func TestNumberFormatAndDelimiter(t *testing.T) {
	c := &Global{Decimal: ",", Thousands: "."}
	nf, err := c.NumberFormat()
	require.NoError(t, err)
	assert.Equal(t, dataset.NumberFormat{Decimal: ',', Thousands: '.'}, nf)

	c = &Global{Decimal: ",", Thousands: ","}
	_, err = c.NumberFormat()
	assert.Error(t, err)

	c = &Global{Delimiter: "tab"}
	r, err := c.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	c = &Global{Delimiter: ";;"}
	_, err = c.DelimiterRune()
	assert.Error(t, err)
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	assert.IsIncreasing(t, keys)
	c := &Global{}
	for _, k := range keys {
		if k == "seed" || k == "popup_include_rating" {
			continue
		}
		// every key is settable from a string
		v := "1"
		assert.NoError(t, c.Set(k, v), k)
	}
}

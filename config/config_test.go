package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var cfg Config
		cfg.ApplyDefaults()

		assert.Equal(t, DefaultPort, cfg.Api.Port)
		assert.Equal(t, "*", cfg.Api.AllowedOrigins)
		assert.Equal(t, DefaultBodyLimit, cfg.Api.BodyLimit)
		assert.Equal(t, "OPENAI_API_KEY", cfg.Generate.ApiKeyEnv)
		assert.Equal(t, "dall-e-3", cfg.Generate.Model)
		assert.Equal(t, "1024x1024", cfg.Generate.Size)
		assert.Equal(t, "standard", cfg.Generate.Quality)
		assert.Equal(t, "natural", cfg.Generate.Style)
		assert.Equal(t, "London Bridge", cfg.Generate.Landmark)
		assert.Equal(t, "london-bridge", cfg.Download.FilenamePrefix)
		assert.EqualValues(t, DefaultMaxBytes, cfg.Download.MaxBytes)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Empty(t, cfg.Download.AllowedHosts)
	})

	t.Run("keeps_values", func(t *testing.T) {
		cfg := Config{
			Api:      ApiConfig{Port: "8080", AllowedOrigins: "https://example.com"},
			Generate: GenerateConfig{Model: "dall-e-2", Landmark: "Tower Bridge"},
			Log:      LogConfig{Level: "DEBUG", Format: "JSON"},
		}
		cfg.ApplyDefaults()

		assert.Equal(t, "8080", cfg.Api.Port)
		assert.Equal(t, "https://example.com", cfg.Api.AllowedOrigins)
		assert.Equal(t, "dall-e-2", cfg.Generate.Model)
		assert.Equal(t, "Tower Bridge", cfg.Generate.Landmark)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("normalizes_hosts", func(t *testing.T) {
		cfg := Config{Download: DownloadConfig{AllowedHosts: []string{" Example.COM ", "", "example.com", "cdn.test"}}}
		cfg.ApplyDefaults()

		assert.Equal(t, []string{"example.com", "cdn.test"}, cfg.Download.AllowedHosts)
	})
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Log.Format = "xml"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Download.FilenamePrefix = "../evil"
	require.Error(t, bad.Validate())
}

package config

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

type Config struct {
	Api      ApiConfig      `yaml:"api"`
	Rpc      RpcConfig      `yaml:"rpc"`
	Log      LogConfig      `yaml:"log"`
	Generate GenerateConfig `yaml:"generate"`
	Download DownloadConfig `yaml:"download"`
}

type ApiConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowedOrigins"`
	BodyLimit      int    `yaml:"bodyLimit"`
}

// RpcConfig controls the gRPC health server. An empty port disables it.
type RpcConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type GenerateConfig struct {
	// ApiKeyEnv names the environment variable holding the provider credential.
	// It is looked up on every request, never at startup.
	ApiKeyEnv string `yaml:"apiKeyEnv"`
	BaseUrl   string `yaml:"baseUrl"`
	Model     string `yaml:"model"`
	Size      string `yaml:"size"`
	Quality   string `yaml:"quality"`
	Style     string `yaml:"style"`
	Landmark  string `yaml:"landmark"`
}

type DownloadConfig struct {
	FilenamePrefix string `yaml:"filenamePrefix"`
	// AllowedHosts restricts which hosts the download proxy will fetch from.
	// Entries match the host itself and any subdomain. Empty means unrestricted.
	AllowedHosts []string `yaml:"allowedHosts"`
	MaxBytes     int64    `yaml:"maxBytes"`
}

const (
	DefaultPort           = "3000"
	DefaultAllowedOrigins = "*"
	DefaultBodyLimit      = 1 << 20
	DefaultApiKeyEnv      = "OPENAI_API_KEY"
	DefaultModel          = "dall-e-3"
	DefaultSize           = "1024x1024"
	DefaultQuality        = "standard"
	DefaultStyle          = "natural"
	DefaultLandmark       = "London Bridge"
	DefaultFilenamePrefix = "london-bridge"
	DefaultMaxBytes       = 20 << 20
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

var logFormats = []string{"text", "json", "logfmt"}

func (c *Config) ApplyDefaults() {
	c.Api.Port = orDefault(c.Api.Port, DefaultPort)
	c.Api.AllowedOrigins = orDefault(c.Api.AllowedOrigins, DefaultAllowedOrigins)
	if c.Api.BodyLimit <= 0 {
		c.Api.BodyLimit = DefaultBodyLimit
	}

	c.Log.Level = orDefault(strings.ToLower(c.Log.Level), DefaultLogLevel)
	c.Log.Format = orDefault(strings.ToLower(c.Log.Format), DefaultLogFormat)

	c.Generate.ApiKeyEnv = orDefault(c.Generate.ApiKeyEnv, DefaultApiKeyEnv)
	c.Generate.Model = orDefault(c.Generate.Model, DefaultModel)
	c.Generate.Size = orDefault(c.Generate.Size, DefaultSize)
	c.Generate.Quality = orDefault(c.Generate.Quality, DefaultQuality)
	c.Generate.Style = orDefault(c.Generate.Style, DefaultStyle)
	c.Generate.Landmark = orDefault(c.Generate.Landmark, DefaultLandmark)

	c.Download.FilenamePrefix = orDefault(c.Download.FilenamePrefix, DefaultFilenamePrefix)
	if c.Download.MaxBytes <= 0 {
		c.Download.MaxBytes = DefaultMaxBytes
	}
	c.Download.AllowedHosts = lo.Uniq(lo.FilterMap(c.Download.AllowedHosts, func(h string, _ int) (string, bool) {
		h = strings.ToLower(strings.TrimSpace(h))
		return h, h != ""
	}))
}

func (c *Config) Validate() error {
	if !lo.Contains(logFormats, c.Log.Format) {
		return errors.New("log.format must be one of text, json, logfmt")
	}
	if strings.ContainsAny(c.Download.FilenamePrefix, `/\ `) {
		return errors.New("download.filenamePrefix must not contain path separators or spaces")
	}
	return nil
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

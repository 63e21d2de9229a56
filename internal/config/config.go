package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "scrobbled"

type Config struct {
	// Poll cadences in seconds.
	ScrobbleInterval    int `koanf:"scrobble_interval"`
	RediscoveryInterval int `koanf:"speaker_rediscovery_interval"`

	// Share of a track that must be played before it scrobbles,
	// 0 to 100. The 4-minute rule applies on top of this.
	ThresholdPercent float64 `koanf:"scrobble_threshold_percent"`

	// Where history, state database and logs live.
	DataDir string `koanf:"data_dir"`

	// Log verbosity: debug, info, warn or error. The -debug flag
	// overrides this.
	LogLevel string `koanf:"log_level"`

	// Last.fm scrobbling (enables the sink when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// ListenBrainz scrobbling (enables the sink when configured)
	ListenBrainz ListenBrainzConfig `koanf:"listenbrainz"`

	// Desktop notifications on successful scrobbles
	Notify NotifyConfig `koanf:"notify"`
}

// LastfmConfig holds Last.fm credentials. Username and password are
// only needed for the non-interactive login flow; api_key and
// api_secret are always required for scrobbling.
type LastfmConfig struct {
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// ListenBrainzConfig holds the ListenBrainz user token.
type ListenBrainzConfig struct {
	Token string `koanf:"token"`
}

// NotifyConfig gates desktop notifications.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// envNames maps the supported environment variables onto config keys.
// Variables outside this list are ignored.
var envNames = map[string]string{
	"LASTFM_USERNAME":              "lastfm.username",
	"LASTFM_PASSWORD":              "lastfm.password",
	"LASTFM_API_KEY":               "lastfm.api_key",
	"LASTFM_API_SECRET":            "lastfm.api_secret",
	"LISTENBRAINZ_TOKEN":           "listenbrainz.token",
	"SCROBBLE_INTERVAL":            "scrobble_interval",
	"SPEAKER_REDISCOVERY_INTERVAL": "speaker_rediscovery_interval",
	"SCROBBLE_THRESHOLD_PERCENT":   "scrobble_threshold_percent",
	"DATA_DIR":                     "data_dir",
	"LOG_LEVEL":                    "log_level",
}

// Load reads configuration from files, then environment variables.
// When configPath is non-empty only that file is read, and it must
// exist.
func Load(configPath string) (*Config, error) {
	// A .env file is optional, same as exporting the variables in the
	// shell.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Later files override earlier ones.
	configPaths := getConfigPaths()
	if configPath != "" {
		configPaths = []string{configPath}
		if _, err := os.Stat(configPath); err != nil {
			return nil, err
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// Environment variables override files.
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: envTransform,
	}), nil); err != nil {
		return nil, err
	}

	cfg := &Config{
		ScrobbleInterval:    1,
		RediscoveryInterval: 10,
		ThresholdPercent:    25,
		LogLevel:            "info",
		Notify:              NotifyConfig{Enabled: true},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	normalize(cfg)
	return cfg, nil
}

// envTransform renames a known environment variable to its config key
// and drops everything else.
func envTransform(key, value string) (string, any) {
	if mapped, ok := envNames[key]; ok {
		return mapped, value
	}
	return "", nil
}

// normalize applies bounds and fills derived defaults.
func normalize(cfg *Config) {
	if cfg.ScrobbleInterval < 1 {
		cfg.ScrobbleInterval = 1
	}
	if cfg.RediscoveryInterval < 1 {
		cfg.RediscoveryInterval = 10
	}
	if cfg.ThresholdPercent < 0 {
		cfg.ThresholdPercent = 0
	}
	if cfg.ThresholdPercent > 100 {
		cfg.ThresholdPercent = 100
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	cfg.DataDir = expandPath(cfg.DataDir)
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/scrobbled/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. config.toml in the working directory, which wins.
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig reports whether an API key pair is present.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// HasLastfmCredentials returns true if the non-interactive login flow
// can run.
func (c *Config) HasLastfmCredentials() bool {
	return c.HasLastfmConfig() && c.Lastfm.Username != "" && c.Lastfm.Password != ""
}

// HasListenBrainzConfig returns true if ListenBrainz submission is
// configured.
func (c *Config) HasListenBrainzConfig() bool {
	return c.ListenBrainz.Token != ""
}

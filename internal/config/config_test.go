//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetEnv clears a variable for the duration of the test. t.Setenv
// registers the restore, the explicit unset removes it entirely.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SCROBBLE_INTERVAL", "SPEAKER_REDISCOVERY_INTERVAL",
		"SCROBBLE_THRESHOLD_PERCENT", "DATA_DIR", "LOG_LEVEL",
	} {
		unsetEnv(t, key)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ScrobbleInterval != 1 {
		t.Errorf("ScrobbleInterval = %d, want 1", cfg.ScrobbleInterval)
	}
	if cfg.RediscoveryInterval != 10 {
		t.Errorf("RediscoveryInterval = %d, want 10", cfg.RediscoveryInterval)
	}
	if cfg.ThresholdPercent != 25 {
		t.Errorf("ThresholdPercent = %v, want 25", cfg.ThresholdPercent)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.Notify.Enabled {
		t.Error("notifications should default to enabled")
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should get a default")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "scrobble_interval = 5\nscrobble_threshold_percent = 50\nlog_level = \"warn\"\n\n[notify]\nenabled = false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SCROBBLE_INTERVAL", "3")
	unsetEnv(t, "SCROBBLE_THRESHOLD_PERCENT")
	unsetEnv(t, "LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ScrobbleInterval != 3 {
		t.Errorf("ScrobbleInterval = %d, want env override 3", cfg.ScrobbleInterval)
	}
	if cfg.ThresholdPercent != 50 {
		t.Errorf("ThresholdPercent = %v, want file value 50", cfg.ThresholdPercent)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want file value %q", cfg.LogLevel, "warn")
	}
	if cfg.Notify.Enabled {
		t.Error("notify.enabled = true, want file value false")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading tilde",
			input:    "~/scrobbled/data",
			expected: filepath.Join(home, "scrobbled", "data"),
		},
		{
			name:     "absolute path passes through",
			input:    "/var/lib/scrobbled",
			expected: "/var/lib/scrobbled",
		},
		{
			name:     "relative path passes through",
			input:    "data/scrobbles",
			expected: "data/scrobbles",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "bare tilde",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned nothing")
	}

	// The working-directory file is the lowest-priority fallback.
	if last := paths[len(paths)-1]; last != "config.toml" {
		t.Errorf("last config path = %q, want %q", last, "config.toml")
	}

	// With a resolvable home, the XDG location is searched first.
	if home, err := os.UserHomeDir(); err == nil {
		want := filepath.Join(home, ".config", "scrobbled", "config.toml")
		if paths[0] != want {
			t.Errorf("first config path = %q, want %q", paths[0], want)
		}
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"lastfm username", "LASTFM_USERNAME", "lastfm.username"},
		{"lastfm api key", "LASTFM_API_KEY", "lastfm.api_key"},
		{"listenbrainz token", "LISTENBRAINZ_TOKEN", "listenbrainz.token"},
		{"scrobble interval", "SCROBBLE_INTERVAL", "scrobble_interval"},
		{"threshold", "SCROBBLE_THRESHOLD_PERCENT", "scrobble_threshold_percent"},
		{"data dir", "DATA_DIR", "data_dir"},
		{"unrelated variable dropped", "PATH", ""},
		{"similar but unknown dropped", "LASTFM_SOMETHING", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, _ := envTransform(tt.key, "value")
			if key != tt.expected {
				t.Errorf("envTransform(%q) key = %q, want %q", tt.key, key, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name              string
		in                Config
		wantScrobble      int
		wantRediscovery   int
		wantThresholdPct  float64
		wantDataDirSuffix string
	}{
		{
			name:             "zero values get defaults",
			in:               Config{},
			wantScrobble:     1,
			wantRediscovery:  10,
			wantThresholdPct: 0,
		},
		{
			name: "valid values kept",
			in: Config{
				ScrobbleInterval:    5,
				RediscoveryInterval: 60,
				ThresholdPercent:    50,
			},
			wantScrobble:     5,
			wantRediscovery:  60,
			wantThresholdPct: 50,
		},
		{
			name: "threshold clamped high",
			in: Config{
				ScrobbleInterval:    1,
				RediscoveryInterval: 10,
				ThresholdPercent:    150,
			},
			wantScrobble:     1,
			wantRediscovery:  10,
			wantThresholdPct: 100,
		},
		{
			name: "threshold clamped low",
			in: Config{
				ScrobbleInterval:    1,
				RediscoveryInterval: 10,
				ThresholdPercent:    -5,
			},
			wantScrobble:     1,
			wantRediscovery:  10,
			wantThresholdPct: 0,
		},
		{
			name: "negative intervals reset",
			in: Config{
				ScrobbleInterval:    -1,
				RediscoveryInterval: -1,
				ThresholdPercent:    25,
			},
			wantScrobble:     1,
			wantRediscovery:  10,
			wantThresholdPct: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			normalize(&cfg)
			if cfg.ScrobbleInterval != tt.wantScrobble {
				t.Errorf("ScrobbleInterval = %d, want %d", cfg.ScrobbleInterval, tt.wantScrobble)
			}
			if cfg.RediscoveryInterval != tt.wantRediscovery {
				t.Errorf("RediscoveryInterval = %d, want %d", cfg.RediscoveryInterval, tt.wantRediscovery)
			}
			if cfg.ThresholdPercent != tt.wantThresholdPct {
				t.Errorf("ThresholdPercent = %v, want %v", cfg.ThresholdPercent, tt.wantThresholdPct)
			}
			if cfg.DataDir == "" {
				t.Error("DataDir should get a default")
			}
		})
	}
}

func TestNormalize_KeepsExplicitDataDir(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/scrobbled"}
	normalize(&cfg)
	if cfg.DataDir != "/var/lib/scrobbled" {
		t.Errorf("DataDir = %q, want explicit value kept", cfg.DataDir)
	}
}

func TestHasLastfmConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name: "both key and secret set",
			config: Config{
				Lastfm: LastfmConfig{APIKey: "key", APISecret: "secret"},
			},
			expected: true,
		},
		{
			name: "only key set",
			config: Config{
				Lastfm: LastfmConfig{APIKey: "key"},
			},
			expected: false,
		},
		{
			name:     "nothing set",
			config:   Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.HasLastfmConfig(); got != tt.expected {
				t.Errorf("HasLastfmConfig() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHasLastfmCredentials(t *testing.T) {
	full := Config{
		Lastfm: LastfmConfig{
			Username:  "user",
			Password:  "pass",
			APIKey:    "key",
			APISecret: "secret",
		},
	}
	if !full.HasLastfmCredentials() {
		t.Error("expected credentials with all four fields")
	}

	noPassword := full
	noPassword.Lastfm.Password = ""
	if noPassword.HasLastfmCredentials() {
		t.Error("missing password should disable the login flow")
	}

	noKeys := Config{
		Lastfm: LastfmConfig{Username: "user", Password: "pass"},
	}
	if noKeys.HasLastfmCredentials() {
		t.Error("username and password without API keys is not enough")
	}
}

func TestHasListenBrainzConfig(t *testing.T) {
	if (&Config{}).HasListenBrainzConfig() {
		t.Error("empty config should not enable listenbrainz")
	}
	cfg := Config{ListenBrainz: ListenBrainzConfig{Token: "tok"}}
	if !cfg.HasListenBrainzConfig() {
		t.Error("token should enable listenbrainz")
	}
}

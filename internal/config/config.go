package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/jkcclemens/bins/internal/units"
)

// Config defines configuration for the bins CLI.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Safety   SafetyConfig   `toml:"safety"`
	Defaults DefaultsConfig `toml:"defaults"`
	ServicesConfig

	// sizeLimit is the parsed general.file_size_limit, resolved by
	// Validate. Zero means unlimited.
	sizeLimit int64
}

// GeneralConfig holds tool-wide options.
type GeneralConfig struct {
	// FileSizeLimit is a human-readable size string ("1 MiB", "500 kB").
	// Empty means unlimited.
	FileSizeLimit string `toml:"file_size_limit"`
}

// SafetyConfig controls the pre-upload safety gate and feature
// negotiation policy.
type SafetyConfig struct {
	DisallowedFilePatterns []string `toml:"disallowed_file_patterns"`
	DisallowedFileTypes    []string `toml:"disallowed_file_types"`
	CancelOnUnsupported    bool     `toml:"cancel_on_unsupported"`
	WarnOnUnsupported      bool     `toml:"warn_on_unsupported"`

	// DisableTypeChecking turns content classification off entirely,
	// as if the capability were not built in.
	DisableTypeChecking bool `toml:"disable_type_checking"`
}

// DefaultsConfig holds request defaults, overridable per invocation on
// the command line.
type DefaultsConfig struct {
	Private bool   `toml:"private"`
	Authed  bool   `toml:"authed"`
	Copy    bool   `toml:"copy"`
	Bin     string `toml:"bin"`
}

// ServicesConfig holds per-service credentials and endpoints. Opaque to
// the core; passed through to the service implementations.
type ServicesConfig struct {
	Gist      GistConfig      `toml:"gist"`
	Pastebin  PastebinConfig  `toml:"pastebin"`
	Hastebin  HastebinConfig  `toml:"hastebin"`
	Bitbucket BitbucketConfig `toml:"bitbucket"`
	PasteGg   PasteGgConfig   `toml:"pastegg"`
	Bucket    BucketConfig    `toml:"bucket"`
}

type GistConfig struct {
	AccessToken string `toml:"access_token"`
}

type PastebinConfig struct {
	APIKey  string `toml:"api_key"`
	UserKey string `toml:"user_key"`
}

type HastebinConfig struct {
	Server string `toml:"server"`
}

type BitbucketConfig struct {
	Username    string `toml:"username"`
	AppPassword string `toml:"app_password"`
}

type PasteGgConfig struct {
	APIKey string `toml:"api_key"`
}

type BucketConfig struct {
	URL string `toml:"url"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Safety: SafetyConfig{
			WarnOnUnsupported: true,
		},
	}
}

// LoadFromFile loads configuration from a TOML file and validates it.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load locates the config file, creating a default one when none
// exists, and loads it.
func Load() (Config, error) {
	path, err := FindPath()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path, err = WriteDefault()
		if err != nil {
			return Config{}, err
		}
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindPath returns the path of the existing config file, or "" when no
// file exists at any recognized location.
func FindPath() (string, error) {
	for _, path := range candidatePaths() {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// candidatePaths lists the recognized config locations in lookup order.
func candidatePaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_DIR"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "bins.cfg"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "bins.cfg"),
			filepath.Join(home, ".bins.cfg"),
		)
	}
	return paths
}

// WriteDefault writes the commented default config to the first
// writable candidate location and returns its path.
func WriteDefault() (string, error) {
	candidates := candidatePaths()
	if len(candidates) == 0 {
		return "", fmt.Errorf("config: neither XDG_CONFIG_DIR nor HOME is set")
	}
	var lastErr error
	for _, path := range candidates {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			lastErr = err
			continue
		}
		if err := os.WriteFile(path, []byte(defaultConfigFile), 0o600); err != nil {
			lastErr = err
			continue
		}
		return path, nil
	}
	return "", fmt.Errorf("config: could not create config file: %w", lastErr)
}

// LoadFromEnv overrides configuration from environment variables.
// Environment variables use the BINS_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("BINS_FILE_SIZE_LIMIT"); v != "" {
		c.General.FileSizeLimit = v
		if err := c.Validate(); err != nil {
			return fmt.Errorf("parse BINS_FILE_SIZE_LIMIT: %w", err)
		}
	}
	if v := os.Getenv("BINS_BIN"); v != "" {
		c.Defaults.Bin = v
	}
	if v := os.Getenv("BINS_GIST_ACCESS_TOKEN"); v != "" {
		c.Gist.AccessToken = v
	}
	if v := os.Getenv("BINS_PASTEBIN_API_KEY"); v != "" {
		c.Pastebin.APIKey = v
	}
	if v := os.Getenv("BINS_PASTEBIN_USER_KEY"); v != "" {
		c.Pastebin.UserKey = v
	}
	if v := os.Getenv("BINS_HASTEBIN_SERVER"); v != "" {
		c.Hastebin.Server = v
	}
	if v := os.Getenv("BINS_BITBUCKET_USERNAME"); v != "" {
		c.Bitbucket.Username = v
	}
	if v := os.Getenv("BINS_BITBUCKET_APP_PASSWORD"); v != "" {
		c.Bitbucket.AppPassword = v
	}
	if v := os.Getenv("BINS_PASTEGG_API_KEY"); v != "" {
		c.PasteGg.APIKey = v
	}
	if v := os.Getenv("BINS_BUCKET_URL"); v != "" {
		c.Bucket.URL = v
	}
	return nil
}

// Validate validates the configuration. A malformed file_size_limit is
// fatal here, before any upload work starts.
func (c *Config) Validate() error {
	if c.General.FileSizeLimit == "" {
		c.sizeLimit = 0
		return nil
	}
	limit, err := units.ParseSize(c.General.FileSizeLimit)
	if err != nil {
		return fmt.Errorf("config: general.file_size_limit: %w", err)
	}
	c.sizeLimit = limit
	return nil
}

// SizeLimit returns the parsed file size limit in bytes. Zero means
// unlimited.
func (c *Config) SizeLimit() int64 {
	return c.sizeLimit
}

const defaultConfigFile = `# bins configuration

[general]
# Refuse to upload files over this size. Decimal (kB, MB, GB) and
# binary (KiB, MiB, GiB) units are supported. Empty means no limit.
file_size_limit = "1 MiB"

[safety]
# Glob patterns (matched against file basenames) that are never uploaded.
disallowed_file_patterns = ["*.key", "*.pem", "id_rsa*"]
# Content types that are never uploaded.
disallowed_file_types = ["PEM RSA private key", "PEM DSA private key", "PEM EC private key", "OpenSSH private key"]
# Abort when the chosen service does not support a requested feature.
cancel_on_unsupported = false
# Warn when an unsupported feature is ignored.
warn_on_unsupported = true

[defaults]
# Default paste visibility and authentication.
private = true
authed = false
# Copy the paste URL to the clipboard after uploading.
copy = false
# Service used when --bin is not given.
bin = ""

[gist]
access_token = ""

[pastebin]
api_key = ""
user_key = ""

[hastebin]
# Self-hosted server, e.g. "https://paste.example.com". Empty uses hastebin.com.
server = ""

[bitbucket]
username = ""
app_password = ""

[pastegg]
api_key = ""

[bucket]
# Object storage target, e.g. "s3://my-pastes" or "gs://my-pastes".
url = ""
`

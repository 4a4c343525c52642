package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.leafscan.yaml",               // Project-specific config (highest priority)
	"~/.config/leafscan/config.yaml", // User config
	"/etc/leafscan/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "LEAFSCAN_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	dotenvFiles []string
	warn        io.Writer
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		dotenvFiles: []string{".env"},
		warn:        os.Stderr,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (a local .env is loaded first, never overriding the real environment)
// 3. ./.leafscan.yaml
// 4. ~/.config/leafscan/config.yaml
// 5. /etc/leafscan/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	l.loadDotenv()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so higher priority files overwrite
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := ExpandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(l.warn, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadDotenv loads .env files if present. Missing files are not an error.
func (l *Loader) loadDotenv() {
	for _, file := range l.dotenvFiles {
		if !fileExists(file) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			fmt.Fprintf(l.warn, "Warning: Failed to load %s: %v\n", file, err)
		}
	}
}

// loadFromFile decodes a YAML file on top of the existing config. Keys absent
// from the file keep their current value.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Endpoint Config
		"ENDPOINT_URL":     func(v string) error { config.Endpoint.URL = v; return nil },
		"ENDPOINT_TIMEOUT": func(v string) error { return parseDuration(v, &config.Endpoint.Timeout) },
		"ENDPOINT_FIELD":   func(v string) error { config.Endpoint.FieldName = v; return nil },

		// Upload Config
		"UPLOAD_MAX_FILE_SIZE":     func(v string) error { return parseInt64(v, &config.Upload.MaxFileSize) },
		"UPLOAD_PROGRESS_STEP":     func(v string) error { return parseInt(v, &config.Upload.ProgressStep) },
		"UPLOAD_PROGRESS_INTERVAL": func(v string) error { return parseDuration(v, &config.Upload.ProgressInterval) },

		// UI Config
		"UI_CELEBRATION":  func(v string) error { return parseDuration(v, &config.UI.CelebrationDuration) },
		"UI_PREVIEW_SIZE": func(v string) error { return parseInt(v, &config.UI.PreviewSize) },

		// Storage Config
		"STORAGE_PREFS_PATH": func(v string) error { config.Storage.PrefsPath = v; return nil },

		// Report Config
		"REPORT_SINK":          func(v string) error { config.Report.Sink = v; return nil },
		"REPORT_DIR":           func(v string) error { config.Report.Dir = v; return nil },
		"REPORT_S3_ENDPOINT":   func(v string) error { config.Report.S3.Endpoint = v; return nil },
		"REPORT_S3_REGION":     func(v string) error { config.Report.S3.Region = v; return nil },
		"REPORT_S3_BUCKET":     func(v string) error { config.Report.S3.Bucket = v; return nil },
		"REPORT_S3_PREFIX":     func(v string) error { config.Report.S3.Prefix = v; return nil },
		"REPORT_S3_ACCESS_KEY": func(v string) error { config.Report.S3.AccessKey = v; return nil },
		"REPORT_S3_SECRET_KEY": func(v string) error { config.Report.S3.SecretKey = v; return nil },
		"REPORT_S3_USE_SSL":    func(v string) error { return parseBool(v, &config.Report.S3.UseSSL) },

		// Output Config
		"OUTPUT_COLOR_MODE": func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":    func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_LOG_FILE":   func(v string) error { config.Output.LogFile = v; return nil },
	}

	var errs []error
	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			if err := setter(value); err != nil {
				errs = append(errs, fmt.Errorf("invalid value for %s: %w", envVar, err))
			}
		}
	}

	return errors.Join(errs...)
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, ExpandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := ExpandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

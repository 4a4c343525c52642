package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Endpoint EndpointConfig `yaml:"endpoint" json:"endpoint"`
	Upload   UploadConfig   `yaml:"upload" json:"upload"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Report   ReportConfig   `yaml:"report" json:"report"`
	Output   OutputConfig   `yaml:"output" json:"output"`
}

// EndpointConfig configures the remote prediction service
type EndpointConfig struct {
	URL       string        `yaml:"url" json:"url"`               // POST target for predictions
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per-request timeout
	FieldName string        `yaml:"field_name" json:"field_name"` // multipart field holding the image
}

// UploadConfig configures file selection and the simulated progress bar
type UploadConfig struct {
	MaxFileSize      int64         `yaml:"max_file_size" json:"max_file_size"`         // bytes
	ProgressStep     int           `yaml:"progress_step" json:"progress_step"`         // percent per tick
	ProgressInterval time.Duration `yaml:"progress_interval" json:"progress_interval"` // tick period
}

// UIConfig configures presentation details
type UIConfig struct {
	CelebrationDuration time.Duration `yaml:"celebration_duration" json:"celebration_duration"`
	PreviewSize         int           `yaml:"preview_size" json:"preview_size"` // max thumbnail edge in pixels
	NoticeDuration      time.Duration `yaml:"notice_duration" json:"notice_duration"`
}

// StorageConfig configures durable preference storage
type StorageConfig struct {
	PrefsPath string `yaml:"prefs_path" json:"prefs_path"`
}

// ReportConfig configures where downloaded reports go
type ReportConfig struct {
	Sink string   `yaml:"sink" json:"sink"` // file|s3
	Dir  string   `yaml:"dir" json:"dir"`
	S3   S3Config `yaml:"s3" json:"s3"`
}

// S3Config configures the object storage report sink
type S3Config struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	Region    string `yaml:"region" json:"region"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	Prefix    string `yaml:"prefix" json:"prefix"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"-"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	ColorMode string `yaml:"color_mode" json:"color_mode"` // auto|always|never
	Verbose   bool   `yaml:"verbose" json:"verbose"`
	LogFile   string `yaml:"log_file" json:"log_file"` // TUI log destination when verbose
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Endpoint: EndpointConfig{
			URL:       "http://localhost:5000/api/detect-disease",
			Timeout:   30 * time.Second,
			FieldName: "file",
		},
		Upload: UploadConfig{
			MaxFileSize:      5 * 1024 * 1024, // 5MB
			ProgressStep:     10,
			ProgressInterval: 200 * time.Millisecond,
		},
		UI: UIConfig{
			CelebrationDuration: 5 * time.Second,
			PreviewSize:         256,
			NoticeDuration:      3 * time.Second,
		},
		Storage: StorageConfig{
			PrefsPath: "~/.config/leafscan/prefs.yaml",
		},
		Report: ReportConfig{
			Sink: "file",
			Dir:  ".",
			S3: S3Config{
				Region: "us-east-1",
				Bucket: "leafscan-reports",
				UseSSL: true,
			},
		},
		Output: OutputConfig{
			ColorMode: "auto",
			Verbose:   false,
			LogFile:   "leafscan.log",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateEndpointConfig(); err != nil {
		return err
	}
	if err := c.validateUploadConfig(); err != nil {
		return err
	}
	if err := c.validateReportConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateEndpointConfig validates prediction endpoint settings
func (c *Config) validateEndpointConfig() error {
	if c.Endpoint.URL == "" {
		return fmt.Errorf("endpoint url must be set")
	}
	u, err := url.Parse(c.Endpoint.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint url scheme: %s (must be http or https)", u.Scheme)
	}
	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint timeout must be non-negative")
	}
	return nil
}

// validateUploadConfig validates upload-related configuration
func (c *Config) validateUploadConfig() error {
	if c.Upload.MaxFileSize < 1 {
		return fmt.Errorf("max_file_size must be greater than 0")
	}
	if c.Upload.ProgressStep < 1 || c.Upload.ProgressStep > 100 {
		return fmt.Errorf("progress_step must be between 1 and 100")
	}
	if c.Upload.ProgressInterval <= 0 {
		return fmt.Errorf("progress_interval must be greater than 0")
	}
	return nil
}

// validateReportConfig validates report sink configuration
func (c *Config) validateReportConfig() error {
	switch c.Report.Sink {
	case "", "file":
		return nil
	case "s3":
		if c.Report.S3.Endpoint == "" {
			return fmt.Errorf("report.s3.endpoint must be set when sink is s3")
		}
		if c.Report.S3.Bucket == "" {
			return fmt.Errorf("report.s3.bucket must be set when sink is s3")
		}
		return nil
	default:
		return fmt.Errorf("invalid report sink: %s (must be one of: file, s3)", c.Report.Sink)
	}
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

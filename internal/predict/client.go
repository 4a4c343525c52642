package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"time"

	"github.com/yildizm/LeafScan/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// Config holds prediction client configuration
type Config struct {
	// URL is the prediction endpoint receiving the multipart POST
	URL string `json:"url"`

	// FieldName is the multipart form field holding the image
	FieldName string `json:"field_name"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		URL:       "http://localhost:5000/api/detect-disease",
		FieldName: "file",
		Timeout:   30 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("prediction endpoint url is required")
	}
	if c.FieldName == "" {
		return fmt.Errorf("multipart field name is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Client talks to the remote prediction endpoint
type Client struct {
	config   *Config
	client   *http.Client
	endpoint *url.URL
	log      *logger.Logger
}

// New creates a prediction client
func New(config *Config, log *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint url: %w", err)
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		endpoint: endpoint,
		log:      log.WithComponent("predict"),
	}, nil
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Predict uploads one image and decodes the diagnosis
func (c *Client) Predict(ctx context.Context, filename, contentType string, data []byte) (*Result, error) {
	start := time.Now()

	body, formContentType, err := c.buildForm(filename, contentType, data)
	if err != nil {
		return nil, newTransportError(ErrTypeRequest, "failed to build multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return nil, newTransportError(ErrTypeRequest, "failed to create request", err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	c.log.DebugWithFields("uploading image", []logger.Field{
		logger.F("file", filename),
		logger.F("bytes", len(data)),
		logger.F("endpoint", c.endpoint.Redacted()),
	})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newTransportError(ErrTypeNetwork, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		terr := newTransportError(ErrTypeStatus, fmt.Sprintf("request failed with status %d", resp.StatusCode), nil)
		terr.StatusCode = resp.StatusCode
		c.log.DebugWithFields("endpoint rejected request", []logger.Field{
			logger.F("status", resp.StatusCode),
			logger.F("body", string(bytes.TrimSpace(snippet))),
		})
		return nil, terr
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, newTransportError(ErrTypeDecode, "failed to decode response", err)
	}
	if err := result.validate(); err != nil {
		return nil, newTransportError(ErrTypeDecode, "response does not match contract", err)
	}

	c.log.DebugWithFields("prediction received", []logger.Field{
		logger.F("disease", result.PredictedDisease),
		logger.F("confidence", result.Confidence),
		logger.Duration(time.Since(start)),
	})

	return &result, nil
}

// buildForm writes the image into a multipart body under the configured field
func (c *Client) buildForm(filename, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		c.config.FieldName, filepath.Base(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

// HealthCheck verifies that the endpoint's host answers HTTP at all. Any
// response, including 404 or 405, counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	origin := url.URL{Scheme: c.endpoint.Scheme, Host: c.endpoint.Host, Path: "/"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin.String(), http.NoBody)
	if err != nil {
		return newTransportError(ErrTypeRequest, "failed to create health check request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newTransportError(ErrTypeNetwork, "health check failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		terr := newTransportError(ErrTypeStatus, fmt.Sprintf("health check failed with status %d", resp.StatusCode), nil)
		terr.StatusCode = resp.StatusCode
		return terr
	}

	return nil
}

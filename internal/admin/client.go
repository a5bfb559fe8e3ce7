package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itsonme/epson-cfg/internal/logging"
	"github.com/itsonme/epson-cfg/internal/version"
)

const (
	// EndpointConfig returns a merchant's printer configuration
	EndpointConfig = "config_epson"

	// EndpointValidate confirms a merchant is ready for a printer
	EndpointValidate = "validate_merchant"

	// EndpointSendTest asks the service to queue a test job for the merchant's printer
	EndpointSendTest = "send_test"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request id the service logs alongside ours
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the merchant administration service
type Client struct {
	// BaseURL is the service root (e.g., "https://admin.itson.me")
	BaseURL string

	// Token authenticates the tool to the service
	Token string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a new administration service client
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// envelope is the wrapper of every service response
type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// ValidateMerchant checks that the merchant exists and is ready for a printer
func (c *Client) ValidateMerchant(merchantID string) (*Merchant, error) {
	var m Merchant
	if err := c.post(EndpointValidate, merchantID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// FetchConfig fetches the merchant's printer configuration
func (c *Client) FetchConfig(merchantID string) (*MerchantConfig, error) {
	var cfg MerchantConfig
	if err := c.post(EndpointConfig, merchantID, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SendTest asks the service to send a test job to the merchant's printer and
// returns the service's message
func (c *Client) SendTest(merchantID string) (string, error) {
	var data json.RawMessage
	if err := c.post(EndpointSendTest, merchantID, &data); err != nil {
		return "", err
	}
	return dataMessage(data), nil
}

// EndpointURL returns the full URL of a service endpoint
func (c *Client) EndpointURL(endpoint string) string {
	return fmt.Sprintf("%s/admt/envs/%s?format=json", c.BaseURL, endpoint)
}

func (c *Client) post(endpoint, merchantID string, out any) error {
	if err := ValidateMerchantID(merchantID); err != nil {
		return err
	}

	form := url.Values{
		"data[token]":       {c.Token},
		"data[merchant_id]": {merchantID},
	}
	target := c.EndpointURL(endpoint)

	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return &ServiceError{Endpoint: endpoint, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	logging.Debug("Admin request",
		zap.String("url", target),
		zap.String("merchant_id", merchantID),
		zap.String("request_id", requestID))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &ServiceError{Endpoint: endpoint, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServiceError{Endpoint: endpoint, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: snippet(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &ServiceError{Endpoint: endpoint, Message: "malformed response", Err: err}
	}
	logging.Debug("Admin response",
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", env.Status))

	if env.Status == 0 {
		return &ServiceError{Endpoint: endpoint, Message: dataMessage(env.Data)}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ServiceError{Endpoint: endpoint, Message: "unexpected data in response", Err: err}
	}
	return nil
}

// dataMessage renders the data field of an envelope as text
func dataMessage(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	if len(data) == 0 {
		return "(no message)"
	}
	return string(data)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty response)"
	}
	return s
}

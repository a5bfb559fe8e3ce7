package printer

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/icholy/digest"

	"github.com/itsonme/epson-cfg/internal/clock"
	"github.com/itsonme/epson-cfg/internal/logging"
	"github.com/itsonme/epson-cfg/internal/version"
)

const (
	// DefaultRetryWindow bounds how long a request is repeated while the
	// device closes connections without answering
	DefaultRetryWindow = 6 * time.Second

	// DefaultRetryPause is the pause between two silent attempts
	DefaultRetryPause = 50 * time.Millisecond

	// DefaultRequestTimeout bounds a single underlying HTTP request
	DefaultRequestTimeout = 20 * time.Second
)

// Transport issues Digest-authenticated requests to one printer and returns
// the raw response body.
//
// The printers sometimes accept a connection and close it without sending
// anything. Transport repeats the identical request while an attempt yields
// no payload (an empty body or a transport failure), for up to RetryWindow
// measured from the first attempt. A non-empty body is returned as-is,
// whatever the HTTP status; judging it is the adapter's job.
type Transport struct {
	// BaseURL is the root of the printer's web config API (e.g., "https://192.168.1.50")
	BaseURL string

	// DeviceIP is the printer address, used in errors
	DeviceIP string

	// RetryWindow bounds the retry loop of one call
	RetryWindow time.Duration

	// RetryPause is the pause between silent attempts
	RetryPause time.Duration

	// UserAgent is sent with every request
	UserAgent string

	httpClient *http.Client
	auth       *digest.Transport
	clock      clock.Clock
}

// NewTransport creates a transport for the session. TLS certificate
// verification is disabled because the printers ship self-signed
// certificates; pass tlsConfig to override.
func NewTransport(session Session, clk clock.Clock, tlsConfig *tls.Config) *Transport {
	if clk == nil {
		clk = clock.Real()
	}
	if tlsConfig == nil {
		tlsConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed device certificates
	}

	base := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   tlsConfig,
		DisableKeepAlives: true,
	}
	auth := &digest.Transport{
		Username:  session.Username,
		Password:  session.Password,
		Transport: base,
	}

	return &Transport{
		BaseURL:     session.BaseURL(),
		DeviceIP:    session.Address,
		RetryWindow: DefaultRetryWindow,
		RetryPause:  DefaultRetryPause,
		UserAgent:   version.UserAgent(),
		httpClient:  &http.Client{Transport: auth, Timeout: DefaultRequestTimeout},
		auth:        auth,
		clock:       clk,
	}
}

// SetTimeout sets the per-request timeout
func (t *Transport) SetTimeout(timeout time.Duration) {
	t.httpClient.Timeout = timeout
}

// SetCredentials replaces the Digest credentials used for later calls
func (t *Transport) SetCredentials(username, password string) {
	t.auth.Username = username
	t.auth.Password = password
}

// Get issues a GET to endpoint
func (t *Transport) Get(endpoint string) (string, error) {
	return t.Send(http.MethodGet, endpoint, nil, "")
}

// PutJSON issues a PUT to endpoint with v encoded as JSON
func (t *Transport) PutJSON(endpoint string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode request for %s: %w", endpoint, err)
	}
	return t.Send(http.MethodPut, endpoint, payload, "application/json")
}

// PostForm issues a form-encoded POST to endpoint
func (t *Transport) PostForm(endpoint string, form url.Values) (string, error) {
	return t.Send(http.MethodPost, endpoint, []byte(form.Encode()), "application/x-www-form-urlencoded")
}

// Send issues the request, repeating it while the device stays silent.
// It returns a ConnectionError once RetryWindow has elapsed without a
// non-empty response.
func (t *Transport) Send(method, endpoint string, body []byte, contentType string) (string, error) {
	target := t.BaseURL + endpoint
	start := t.clock.Now()

	for attempt := 1; ; attempt++ {
		text, err := t.attempt(method, target, body, contentType, attempt)
		if err == nil && text != "" {
			return text, nil
		}
		if IsInvalidArgument(err) {
			return "", err
		}
		if err == nil {
			err = errNoResponse
		}

		elapsed := t.clock.Now().Sub(start)
		if elapsed >= t.RetryWindow {
			return "", NewConnectionError(t.DeviceIP, endpoint, attempt, elapsed, err)
		}

		logging.LogRetry(method, target, attempt, elapsed, err)
		if t.RetryPause > 0 {
			t.clock.Sleep(t.RetryPause)
		}
	}
}

// attempt performs a single request and returns the body text
func (t *Transport) attempt(method, target string, body []byte, contentType string, n int) (string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return "", NewInvalidArgumentError(fmt.Sprintf("cannot build request for %s: %v", target, err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	logging.LogDeviceRequest(method, target, n, len(body))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil && len(data) == 0 {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	text := string(data)
	logging.LogDeviceResponse(method, target, resp.StatusCode, text)
	return text, nil
}

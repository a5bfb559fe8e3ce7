package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/icholy/digest"

	"github.com/itsonme/epson-cfg/internal/clock"
)

const (
	testRealm = "EPSON Web Config"
	testNonce = "5a1c7d3e9b2f4a6c8e0d1f3b5a7c9e1d"
)

var testStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// digestGuard answers unauthenticated requests with a Digest challenge and
// checks the response hash of authenticated ones.
type digestGuard struct {
	mu       sync.Mutex
	password string
}

func (g *digestGuard) setPassword(p string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.password = p
}

func (g *digestGuard) authorized(r *http.Request) bool {
	creds, err := digest.ParseCredentials(r.Header.Get("Authorization"))
	if err != nil || creds.Username != DefaultUsername {
		return false
	}

	g.mu.Lock()
	password := g.password
	g.mu.Unlock()

	chal := &digest.Challenge{
		Realm:     testRealm,
		Nonce:     testNonce,
		Algorithm: "MD5",
		QOP:       []string{"auth"},
	}
	want, err := digest.Digest(chal, digest.Options{
		Method:   r.Method,
		URI:      creds.URI,
		Count:    creds.Nc,
		Cnonce:   creds.Cnonce,
		Username: DefaultUsername,
		Password: password,
	})
	return err == nil && want.Response == creds.Response
}

// check writes a 401 challenge and returns false when r is not authorized
func (g *digestGuard) check(w http.ResponseWriter, r *http.Request) bool {
	if g.authorized(r) {
		return true
	}
	w.Header().Set("WWW-Authenticate",
		fmt.Sprintf(`Digest realm=%q, nonce=%q, algorithm=MD5, qop="auth"`, testRealm, testNonce))
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = io.WriteString(w, "<html><body>401 Unauthorized</body></html>")
	return false
}

// silence makes the first n requests reach no payload, either as an empty
// 200 or as a dropped connection
type silence struct {
	mu   sync.Mutex
	left int
	drop bool
}

func (s *silence) swallow(w http.ResponseWriter) bool {
	s.mu.Lock()
	if s.left == 0 {
		s.mu.Unlock()
		return false
	}
	if s.left > 0 {
		s.left--
	}
	drop := s.drop
	s.mu.Unlock()

	if drop {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return true
			}
		}
	}
	w.WriteHeader(http.StatusOK)
	return true
}

// fakeT88VI emulates the TM-T88VI web config API
type fakeT88VI struct {
	t      *testing.T
	server *httptest.Server
	auth   digestGuard
	quiet  silence

	mu           sync.Mutex
	settings     map[string]map[string]string
	putMessage   string
	resetMessage string
	configBody   string
	afterPut     func(settings map[string]map[string]string)
	calls        []string
	puts         []map[string]any
	resets       int
}

func newFakeT88VI(t *testing.T) *fakeT88VI {
	t.Helper()
	f := &fakeT88VI{
		t:            t,
		settings:     map[string]map[string]string{},
		putMessage:   "Success",
		resetMessage: "Success",
	}
	f.auth.password = DefaultPassword
	f.server = httptest.NewTLSServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeT88VI) handle(w http.ResponseWriter, r *http.Request) {
	if f.quiet.swallow(w) {
		return
	}
	if !f.auth.check(w, r) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	switch {
	case r.URL.Path == ConfigEndpoint && r.Method == http.MethodGet:
		if f.configBody != "" {
			_, _ = io.WriteString(w, f.configBody)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"Setting": f.settings})

	case r.URL.Path == ConfigEndpoint && r.Method == http.MethodPut:
		var doc map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			f.t.Errorf("PUT body is not a settings document: %v", err)
			http.Error(w, `{"message":"Bad Request"}`, http.StatusBadRequest)
			return
		}
		f.puts = append(f.puts, doc["Setting"])
		if strings.HasPrefix(f.putMessage, "Success") {
			f.store(doc["Setting"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": f.putMessage})

	case r.URL.Path == ResetEndpoint:
		f.resets++
		_ = json.NewEncoder(w).Encode(map[string]string{"message": f.resetMessage})

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeT88VI) store(setting map[string]any) {
	for group, v := range setting {
		values, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if f.settings[group] == nil {
			f.settings[group] = map[string]string{}
		}
		for k, val := range values {
			f.settings[group][k] = fmt.Sprint(val)
		}
	}
	if f.afterPut != nil {
		f.afterPut(f.settings)
	}
}

func (f *fakeT88VI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeT88VI) putDocs() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.puts...)
}

func (f *fakeT88VI) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

// fakeT88V emulates the TM-T88V legacy form endpoints
type fakeT88V struct {
	t      *testing.T
	server *httptest.Server
	auth   digestGuard
	quiet  silence

	mu        sync.Mutex
	failOn    map[string]string
	forms     map[string]url.Values
	calls     []string
	passwords []string
}

func newFakeT88V(t *testing.T) *fakeT88V {
	t.Helper()
	f := &fakeT88V{
		t:      t,
		failOn: map[string]string{},
		forms:  map[string]url.Values{},
	}
	f.auth.password = DefaultPassword
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeT88V) handle(w http.ResponseWriter, r *http.Request) {
	if f.quiet.swallow(w) {
		return
	}
	if !f.auth.check(w, r) {
		return
	}

	f.auth.mu.Lock()
	usedPassword := f.auth.password
	f.auth.mu.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("format") != "json" {
		f.t.Errorf("%s %s: missing format=json", r.Method, r.URL)
	}

	path := strings.TrimPrefix(r.URL.Path, "/webconfig/")
	path = strings.TrimSuffix(path, ".cgi")
	f.calls = append(f.calls, r.Method+" "+path)
	f.passwords = append(f.passwords, usedPassword)

	switch {
	case strings.HasPrefix(path, "set_") && r.Method == http.MethodPost:
		endpoint := strings.TrimPrefix(path, "set_")
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("bad form for %s: %v", endpoint, err)
		}
		f.forms[endpoint] = r.PostForm
		if body, ok := f.failOn[endpoint]; ok {
			_, _ = io.WriteString(w, body)
			return
		}
		if endpoint == EndpointPassword {
			f.auth.setPassword(r.PostForm.Get("NewPassword"))
		}
		_, _ = io.WriteString(w, `{"response":{"success":"true"}}`)

	case strings.HasPrefix(path, "config_") && r.Method == http.MethodGet:
		endpoint := strings.TrimPrefix(path, "config_")
		resp := map[string]any{"success": "true"}
		for k, v := range f.forms[endpoint] {
			resp[k] = v[0]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": resp})

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeT88V) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeT88V) form(endpoint string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[endpoint]
}

func (f *fakeT88V) passwordLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.passwords...)
}

// newTestAdapter builds an adapter against a fake with a fake clock
func newTestAdapter(t *testing.T, model Model, baseURL string, opts ...Option) (Adapter, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testStart)
	all := append([]Option{
		WithBaseURL(baseURL),
		WithClock(clk),
		WithRetryPause(50 * time.Millisecond),
	}, opts...)
	a, err := New(model, "127.0.0.1", DefaultPassword, all...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, clk
}

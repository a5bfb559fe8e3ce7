package printer

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/itsonme/epson-cfg/internal/clock"
)

// Adapter provisions one printer. The concrete type is chosen once by New
// from the operator-supplied model. An Adapter owns its session and staged
// settings and is not safe for concurrent use.
type Adapter interface {
	// Model returns the firmware family
	Model() Model

	// Session returns a copy of the current session
	Session() Session

	// SetAdministrator merges g into the staged administrator group
	SetAdministrator(g AdministratorGroup)

	// SetServerDirectPrint merges g into the staged Server Direct Print group
	SetServerDirectPrint(g EndpointGroup)

	// SetStatusNotification merges g into the staged Status Notification group
	SetStatusNotification(g EndpointGroup)

	// SetPassword stages a new device password
	SetPassword(password string)

	// Staged returns a copy of the staged settings
	Staged() Settings

	// TestConnection reports whether the printer answers at all. It is false
	// only when the transport gives up with a ConnectionError.
	TestConnection() bool

	// Apply sends the staged settings. Staging is consumed when Apply
	// begins, so a second Apply without new Set calls has nothing to do.
	Apply() (*ApplyResult, error)

	// Reset restarts the printer and waits for it to settle
	Reset() bool

	// Configuration reads the printer's current settings
	Configuration() (*Snapshot, error)
}

// ApplyStatus is the outcome of an Apply call
type ApplyStatus int

const (
	// StatusApplied means every staged setting was accepted
	StatusApplied ApplyStatus = iota
	// StatusNothingToDo means nothing was staged and no request was made
	StatusNothingToDo
	// StatusConnectionFailed means the device never answered
	StatusConnectionFailed
	// StatusRejected means the device refused the update
	StatusRejected
	// StatusMismatch means the device readback differs from what was sent
	StatusMismatch
	// StatusFatal means a legacy endpoint failed and the sequence was halted
	StatusFatal
	// StatusRestartFailed means the update was verified but the restart was not confirmed
	StatusRestartFailed
)

// String returns a human-readable name for the status
func (s ApplyStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusNothingToDo:
		return "nothing to do"
	case StatusConnectionFailed:
		return "connection failed"
	case StatusRejected:
		return "rejected"
	case StatusMismatch:
		return "verification mismatch"
	case StatusFatal:
		return "fatal endpoint failure"
	case StatusRestartFailed:
		return "restart failed"
	default:
		return fmt.Sprintf("ApplyStatus(%d)", int(s))
	}
}

// ApplyResult describes what an Apply call did
type ApplyResult struct {
	Status ApplyStatus

	// Issues lists what went wrong, "<Group> -- <Field>" for mismatches
	Issues []string

	// Report holds the verification mismatches (TM-T88VI)
	Report VerificationReport

	// Applied lists the groups (TM-T88VI) or endpoints (TM-T88V) the device accepted
	Applied []string

	// Restarted is true when the printer confirmed a restart
	Restarted bool

	// PasswordRotated is true when the session now uses the new password
	PasswordRotated bool

	// PasswordSkipped is true when a staged password was not transmitted
	PasswordSkipped bool
}

// Success reports whether the apply completed
func (r *ApplyResult) Success() bool {
	return r != nil && r.Status == StatusApplied
}

func nothingToDo() *ApplyResult {
	return &ApplyResult{Status: StatusNothingToDo, Issues: []string{"nothing to do"}}
}

func failedResult(status ApplyStatus, err error) *ApplyResult {
	return &ApplyResult{Status: status, Issues: []string{GetShortErrorMessage(err)}}
}

func statusForError(err error) ApplyStatus {
	switch {
	case IsConnectionError(err):
		return StatusConnectionFailed
	case IsFatal(err):
		return StatusFatal
	case IsVerificationError(err):
		return StatusMismatch
	default:
		return StatusRejected
	}
}

// Option configures an Adapter
type Option func(*options)

type options struct {
	clock          clock.Clock
	baseURL        string
	tlsConfig      *tls.Config
	retryWindow    time.Duration
	retryPause     time.Duration
	requestTimeout time.Duration
	settleDelay    time.Duration
	rotatePassword bool
}

func defaultOptions() options {
	return options{
		clock:          clock.Real(),
		retryWindow:    DefaultRetryWindow,
		retryPause:     DefaultRetryPause,
		requestTimeout: DefaultRequestTimeout,
		settleDelay:    DefaultSettleDelay,
	}
}

// WithClock sets the clock driving the retry window and settle delay
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithBaseURL overrides the scheme://address the API is reached at
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTLSConfig replaces the default TLS configuration, which skips
// certificate verification
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) { o.tlsConfig = cfg }
}

// WithRetryWindow sets how long a silent request is repeated
func WithRetryWindow(d time.Duration) Option {
	return func(o *options) { o.retryWindow = d }
}

// WithRetryPause sets the pause between silent attempts
func WithRetryPause(d time.Duration) Option {
	return func(o *options) { o.retryPause = d }
}

// WithRequestTimeout sets the timeout of a single HTTP request
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithSettleDelay sets the wait after a confirmed restart
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) { o.settleDelay = d }
}

// WithPasswordRotation makes the TM-T88VI adapter transmit a staged password
// and rotate the session after a verified update and confirmed restart.
// Without it a staged password is accepted but not sent.
func WithPasswordRotation() Option {
	return func(o *options) { o.rotatePassword = true }
}

// New creates the adapter for model. An empty password selects the factory
// default.
func New(model Model, address, password string, opts ...Option) (Adapter, error) {
	if model != ModelT88V && model != ModelT88VI {
		return nil, NewInvalidArgumentError(fmt.Sprintf("unsupported printer model %s", model))
	}
	if strings.TrimSpace(address) == "" {
		return nil, NewInvalidArgumentError("printer address is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := newBase(NewSession(model, address, password), o)
	if model == ModelT88V {
		return &t88v{base: b}, nil
	}

	resetter := NewResetSequencer(b.transport, o.clock)
	resetter.SettleDelay = o.settleDelay
	return &t88vi{base: b, resetter: resetter}, nil
}

// base holds the state and behavior common to both firmware families
type base struct {
	session   Session
	staged    *Settings
	transport *Transport
	opts      options
}

func newBase(session Session, o options) *base {
	t := NewTransport(session, o.clock, o.tlsConfig)
	if o.baseURL != "" {
		t.BaseURL = o.baseURL
	}
	t.RetryWindow = o.retryWindow
	t.RetryPause = o.retryPause
	t.SetTimeout(o.requestTimeout)

	return &base{
		session:   session,
		staged:    NewSettings(),
		transport: t,
		opts:      o,
	}
}

func (b *base) Model() Model { return b.session.Model }

func (b *base) Session() Session { return b.session }

func (b *base) SetAdministrator(g AdministratorGroup) { b.staged.SetAdministrator(g) }

func (b *base) SetServerDirectPrint(g EndpointGroup) { b.staged.SetServerDirectPrint(g) }

func (b *base) SetStatusNotification(g EndpointGroup) { b.staged.SetStatusNotification(g) }

func (b *base) SetPassword(password string) { b.staged.SetPassword(password) }

func (b *base) Staged() Settings { return b.staged.Clone() }

// consume hands over the staged settings and starts a fresh staging area
func (b *base) consume() Settings {
	s := *b.staged
	b.staged = NewSettings()
	return s
}

// rotatePassword switches the session and transport to a confirmed new password
func (b *base) rotatePassword(password string) {
	b.session.Password = password
	b.transport.SetCredentials(b.session.Username, password)
}

// probe reports whether endpoint produced any response at all. A request
// that cannot even be built counts as no response.
func (b *base) probe(endpoint string) bool {
	_, err := b.transport.Get(endpoint)
	return !IsConnectionError(err) && !IsInvalidArgument(err)
}

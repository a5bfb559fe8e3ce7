package printer

import (
	"time"

	"go.uber.org/zap"

	"github.com/itsonme/epson-cfg/internal/clock"
	"github.com/itsonme/epson-cfg/internal/logging"
)

const (
	// ResetEndpoint restarts a TM-T88VI
	ResetEndpoint = "/webconfig/api/v1/reset.cgi"

	// DefaultSettleDelay is how long a restarting printer stays unreachable
	DefaultSettleDelay = 30 * time.Second
)

// ResetSequencer restarts a TM-T88VI and waits for it to come back.
// Callers must not send further requests until Reset returns.
type ResetSequencer struct {
	// SettleDelay is the wait after a confirmed restart
	SettleDelay time.Duration

	transport *Transport
	clock     clock.Clock
}

// NewResetSequencer creates a sequencer that restarts the printer behind t
func NewResetSequencer(t *Transport, clk clock.Clock) *ResetSequencer {
	if clk == nil {
		clk = clock.Real()
	}
	return &ResetSequencer{
		SettleDelay: DefaultSettleDelay,
		transport:   t,
		clock:       clk,
	}
}

// Reset requests a restart. It returns true only when the device answers
// with the message "Success" exactly, after waiting SettleDelay. Any other
// answer or a transport failure returns false at once.
func (r *ResetSequencer) Reset() bool {
	body, err := r.transport.Get(ResetEndpoint)
	if err != nil {
		logging.Warn("Restart request failed", zap.Error(err))
		return false
	}

	msg, err := parseMessage(ResetEndpoint, body)
	if err != nil || msg != "Success" {
		logging.Warn("Restart not confirmed", zap.String("response", body))
		return false
	}

	logging.Info("Printer restarting", zap.Duration("settle_delay", r.SettleDelay))
	r.clock.Sleep(r.SettleDelay)
	return true
}

package printer

import (
	"fmt"
	"strings"
)

const (
	// DefaultUsername is the fixed HTTP Digest username of the web config API
	DefaultUsername = "epson"

	// DefaultPassword is the factory password of the web config API
	DefaultPassword = "epson"
)

// Model identifies the firmware family of a printer
type Model int

const (
	// ModelT88V is the TM-T88V with per-field legacy form endpoints over HTTP
	ModelT88V Model = iota + 1
	// ModelT88VI is the TM-T88VI with a single JSON configuration API over HTTPS
	ModelT88VI
)

// String returns the product name of the model
func (m Model) String() string {
	switch m {
	case ModelT88V:
		return "TM-T88V"
	case ModelT88VI:
		return "TM-T88VI"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Scheme returns the URL scheme the model's web config API is served on
func (m Model) Scheme() string {
	if m == ModelT88VI {
		return "https"
	}
	return "http"
}

// ParseModel parses an operator-supplied model name such as "v", "vi",
// "t88vi" or "TM-T88V".
func ParseModel(s string) (Model, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "tm-")
	name = strings.TrimPrefix(name, "t88")
	switch name {
	case "v", "5":
		return ModelT88V, nil
	case "vi", "6":
		return ModelT88VI, nil
	default:
		return 0, NewInvalidArgumentError(fmt.Sprintf("unknown printer model %q (want v or vi)", s))
	}
}

// Session holds what is needed to talk to one printer. Password is the one
// used for the next authenticated call.
type Session struct {
	Model    Model
	Address  string
	Username string
	Password string
}

// NewSession creates a session with the fixed username. An empty password
// selects the factory default.
func NewSession(model Model, address, password string) Session {
	if password == "" {
		password = DefaultPassword
	}
	return Session{
		Model:    model,
		Address:  address,
		Username: DefaultUsername,
		Password: password,
	}
}

// BaseURL returns the root URL of the printer's web config API
func (s Session) BaseURL() string {
	return fmt.Sprintf("%s://%s", s.Model.Scheme(), s.Address)
}

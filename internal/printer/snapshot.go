package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Snapshot is a printer's current configuration as read back from the
// device, with every value normalized to its string form.
type Snapshot struct {
	Model Model `json:"model" yaml:"model"`

	// Groups maps a group name to its field values. TM-T88VI groups use the
	// API names ("ServerDirectPrint"); TM-T88V groups use the endpoint names
	// ("server_direct_print").
	Groups map[string]map[string]string `json:"groups" yaml:"groups"`
}

// Value returns one field of the snapshot
func (s *Snapshot) Value(group, field string) (string, bool) {
	if s == nil {
		return "", false
	}
	values, ok := s.Groups[group]
	if !ok {
		return "", false
	}
	v, ok := values[field]
	return v, ok
}

// GroupNames returns the group names in sorted order
func (s *Snapshot) GroupNames() []string {
	names := make([]string, 0, len(s.Groups))
	for name := range s.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseT88VISnapshot parses the body of a TM-T88VI configuration GET.
// The settings may sit under a top-level "Setting" object.
func ParseT88VISnapshot(body string) (*Snapshot, error) {
	top, err := decodeObject(body)
	if err != nil {
		return nil, NewParseError(ConfigEndpoint, body, err)
	}

	root := top
	if setting, ok := top["Setting"].(map[string]any); ok {
		root = setting
	}

	snap := &Snapshot{Model: ModelT88VI, Groups: make(map[string]map[string]string)}
	for name, v := range root {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		snap.Groups[name] = flatten(obj)
	}
	return snap, nil
}

// parseT88VGroup parses the body of a legacy config_<endpoint>.cgi GET into
// the fields of one group. The values sit under "response", either directly
// or in a nested object.
func parseT88VGroup(endpoint, body string) (map[string]string, error) {
	top, err := decodeObject(body)
	if err != nil {
		return nil, NewParseError(endpoint, body, err)
	}
	resp, ok := top["response"].(map[string]any)
	if !ok {
		return nil, NewParseError(endpoint, body, fmt.Errorf("missing response object"))
	}

	values := make(map[string]string)
	for k, v := range resp {
		if k == "success" {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(nested) {
				values[nk] = nv
			}
			continue
		}
		values[k] = normalizeValue(v)
	}
	return values, nil
}

func decodeObject(body string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return obj, nil
}

func flatten(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = normalizeValue(v)
	}
	return out
}

// normalizeValue renders a decoded JSON value the way the printer stores it:
// numbers without exponent, booleans as ON/OFF, strings unchanged.
func normalizeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "ON"
		}
		return "OFF"
	case json.Number:
		s := x.String()
		if strings.ContainsAny(s, "eE") {
			if f, err := x.Float64(); err == nil {
				return strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
		return s
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(x); err != nil {
			return fmt.Sprint(x)
		}
		return strings.TrimSpace(buf.String())
	}
}

// deviceMessage is the reply of the TM-T88VI update and reset endpoints
type deviceMessage struct {
	Message string `json:"message"`
}

func parseMessage(endpoint, body string) (string, error) {
	var m deviceMessage
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return "", NewParseError(endpoint, body, err)
	}
	return m.Message, nil
}

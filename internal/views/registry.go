// Package views normalizes the operator's log_views configuration into an
// immutable, sorted registry of runnable views.
package views

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	defaultSafeOutput = true
	defaultBottom     = true
)

// Spec is one raw log_views entry: either a bare command string or an
// object with optional fields. It is decoded once at load time.
type Spec struct {
	Cmd        *string `json:"cmd"`
	Refresh    *int    `json:"refresh"`
	SafeOutput *bool   `json:"safe_output"`
	Bottom     *bool   `json:"bottom"`
}

// UnmarshalJSON accepts `"tail -n 50 /var/log/syslog"` or
// `{"cmd": "...", "refresh": 10, "safe_output": false, "bottom": true}`.
func (s *Spec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("views: empty view definition")
	}

	switch data[0] {
	case '"':
		var cmd string
		if err := json.Unmarshal(data, &cmd); err != nil {
			return fmt.Errorf("views: decode command string: %w", err)
		}
		*s = Spec{Cmd: &cmd}
		return nil
	case '{':
		type plain Spec
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("views: decode view object: %w", err)
		}
		*s = Spec(p)
		return nil
	default:
		return fmt.Errorf("views: view must be a command string or an object, got %s", data)
	}
}

// View is a fully populated view definition.
type View struct {
	Name       string
	Command    string
	Refresh    int // seconds; <= 0 disables auto refresh
	SafeOutput bool
	Bottom     bool
}

// AutoRefresh reports whether the browser should poll this view.
func (v View) AutoRefresh() bool {
	return v.Refresh > 0
}

// PublicView is the subset of a view that the page may expose before login.
type PublicView struct {
	Name    string `json:"name"`
	Refresh int    `json:"refresh"`
	Bottom  bool   `json:"bottom"`
}

// Registry holds normalized views. It is read-only after New and safe for
// concurrent use.
type Registry struct {
	sorted []View
	byName map[string]View
}

// New normalizes specs, filling missing fields with defaults. refresh is
// the global refresh_interval.
func New(specs map[string]Spec, refresh int) *Registry {
	r := &Registry{
		sorted: make([]View, 0, len(specs)),
		byName: make(map[string]View, len(specs)),
	}

	for name, s := range specs {
		v := View{
			Name:       name,
			Refresh:    refresh,
			SafeOutput: defaultSafeOutput,
			Bottom:     defaultBottom,
		}
		if s.Cmd != nil {
			v.Command = *s.Cmd
		}
		if s.Refresh != nil {
			v.Refresh = *s.Refresh
		}
		if s.SafeOutput != nil {
			v.SafeOutput = *s.SafeOutput
		}
		if s.Bottom != nil {
			v.Bottom = *s.Bottom
		}

		r.sorted = append(r.sorted, v)
		r.byName[name] = v
	}

	sort.Slice(r.sorted, func(i, j int) bool {
		a, b := strings.ToLower(r.sorted[i].Name), strings.ToLower(r.sorted[j].Name)
		if a != b {
			return a < b
		}
		return r.sorted[i].Name < r.sorted[j].Name
	})

	return r
}

// Lookup returns the view with exactly this name.
func (r *Registry) Lookup(name string) (View, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Views returns all views ordered case-insensitively by name.
func (r *Registry) Views() []View {
	out := make([]View, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Public returns the page-safe projection of Views.
func (r *Registry) Public() []PublicView {
	out := make([]PublicView, 0, len(r.sorted))
	for _, v := range r.sorted {
		out = append(out, PublicView{Name: v.Name, Refresh: v.Refresh, Bottom: v.Bottom})
	}
	return out
}

// Len returns the number of views.
func (r *Registry) Len() int {
	return len(r.sorted)
}

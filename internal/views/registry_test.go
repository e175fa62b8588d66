package views

import (
	"encoding/json"
	"testing"
)

func decodeSpecs(t *testing.T, raw string) map[string]Spec {
	t.Helper()
	var specs map[string]Spec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		t.Fatalf("unmarshal specs: %v", err)
	}
	return specs
}

func TestNew_StringShorthandGetsDefaults(t *testing.T) {
	r := New(decodeSpecs(t, `{"syslog": "tail -n 20 /var/log/syslog"}`), 30)

	v, ok := r.Lookup("syslog")
	if !ok {
		t.Fatal("Lookup(syslog) not found")
	}
	if v.Command != "tail -n 20 /var/log/syslog" {
		t.Errorf("Command = %q", v.Command)
	}
	if v.Refresh != 30 {
		t.Errorf("Refresh = %d, want 30", v.Refresh)
	}
	if !v.SafeOutput {
		t.Error("SafeOutput should default to true")
	}
	if !v.Bottom {
		t.Error("Bottom should default to true")
	}
}

func TestNew_ObjectFormOverridesAndDefaults(t *testing.T) {
	r := New(decodeSpecs(t, `{
		"status": {"cmd": "systemctl status nginx", "refresh": 0, "safe_output": false},
		"empty": {}
	}`), 15)

	v, _ := r.Lookup("status")
	if v.Refresh != 0 {
		t.Errorf("explicit refresh 0 should be kept, got %d", v.Refresh)
	}
	if v.AutoRefresh() {
		t.Error("refresh 0 must disable auto refresh")
	}
	if v.SafeOutput {
		t.Error("SafeOutput should be false when configured so")
	}
	if !v.Bottom {
		t.Error("Bottom should default to true in object form")
	}

	e, _ := r.Lookup("empty")
	if e.Command != "" || e.Refresh != 15 || !e.SafeOutput || !e.Bottom {
		t.Errorf("empty object not defaulted: %+v", e)
	}
}

func TestNew_NegativeRefreshDisables(t *testing.T) {
	r := New(decodeSpecs(t, `{"once": {"cmd": "uptime", "refresh": -5}}`), 30)
	v, _ := r.Lookup("once")
	if v.AutoRefresh() {
		t.Error("negative refresh must disable auto refresh")
	}
}

func TestSpec_RejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{`{"a": 5}`, `{"a": ["ls"]}`, `{"a": true}`, `{"a": {"refresh": "x"}}`} {
		var specs map[string]Spec
		if err := json.Unmarshal([]byte(raw), &specs); err == nil {
			t.Errorf("%s: expected error", raw)
		}
	}
}

func TestViews_SortedCaseInsensitive(t *testing.T) {
	r := New(decodeSpecs(t, `{"beta": "b", "Alpha": "a", "gamma": "g", "alpha": "a2"}`), 30)

	got := r.Views()
	want := []string{"Alpha", "alpha", "beta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Views()[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	r := New(decodeSpecs(t, `{"Syslog": "tail"}`), 30)
	if _, ok := r.Lookup("syslog"); ok {
		t.Error("Lookup should not fold case")
	}
}

func TestPublic_OmitsCommandAndSafety(t *testing.T) {
	r := New(decodeSpecs(t, `{"secret": {"cmd": "cat /etc/shadow", "safe_output": false}}`), 30)

	b, err := json.Marshal(r.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"name":"secret","refresh":30,"bottom":true}]`
	if string(b) != want {
		t.Errorf("Public() = %s, want %s", b, want)
	}
}

//go:build unix

package logview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShellRunner_Stdout(t *testing.T) {
	r := NewShellRunner("", 0)
	out, err := r.Run(context.Background(), "printf 'one\\ntwo\\nthree\\n' | tail -n 2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Stdout != "two\nthree\n" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d", out.ExitCode)
	}
}

func TestShellRunner_NonZeroExit(t *testing.T) {
	r := NewShellRunner("sh", 0)
	out, err := r.Run(context.Background(), "echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if strings.TrimSpace(out.Stderr) != "oops" {
		t.Errorf("Stderr = %q", out.Stderr)
	}
}

func TestShellRunner_MissingShell(t *testing.T) {
	r := NewShellRunner("/nonexistent/shell", 0)
	_, err := r.Run(context.Background(), "true")
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("err = %v, want ErrSpawn", err)
	}
}

func TestShellRunner_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewShellRunner("sh", 0)
	out, err := r.Run(ctx, "echo still-ran")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "still-ran" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
}

func TestShellRunner_Timeout(t *testing.T) {
	r := NewShellRunner("sh", 100*time.Millisecond)

	start := time.Now()
	out, err := r.Run(context.Background(), "sleep 5 | cat")
	if err == nil {
		t.Fatal("Run should fail on timeout")
	}
	if errors.Is(err, ErrSpawn) {
		t.Errorf("timeout reported as spawn failure: %v", err)
	}
	if out.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", out.ExitCode)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took %v; process group not killed", elapsed)
	}
}

func TestPipeline_WithShellRunner(t *testing.T) {
	p := New(fakeSessions{"good": true}, testRegistry(t), NewShellRunner("sh", 0))

	res := p.Fetch(context.Background(), "good", "safe")
	if res.Outcome != OutcomeOK || res.Body != "safe\n" {
		t.Errorf("got %v %q", res.Outcome, res.Body)
	}
}

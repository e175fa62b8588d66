// Package logview turns a (session, view) request into response text: it
// checks the session, resolves the view, runs its command and makes the
// output safe to return as text/plain.
package logview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"logviewer/internal/logger"
	"logviewer/internal/views"
)

const (
	UnauthorizedText = "Unauthorized: Invalid or expired session."
	InvalidViewText  = "Invalid or missing log view selection."
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeUnauthorized
	OutcomeInvalidView
	OutcomeCommandError
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeInvalidView:
		return "invalid_view"
	case OutcomeCommandError:
		return "command_error"
	case OutcomeUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// SessionValidator is the part of session.Store the pipeline needs.
type SessionValidator interface {
	Validate(ctx context.Context, token string) bool
}

// Result is the response body plus how it was reached.
type Result struct {
	Outcome  Outcome
	Body     string
	ExitCode int
}

type Pipeline struct {
	sessions SessionValidator
	views    *views.Registry
	runner   Runner
}

func New(sessions SessionValidator, registry *views.Registry, runner Runner) *Pipeline {
	return &Pipeline{sessions: sessions, views: registry, runner: runner}
}

// Fetch runs view for the holder of token. Every outcome is a text body;
// callers always answer 200 text/plain.
func (p *Pipeline) Fetch(ctx context.Context, token, view string) Result {
	if !p.sessions.Validate(ctx, token) {
		return Result{Outcome: OutcomeUnauthorized, Body: UnauthorizedText}
	}

	v, ok := p.views.Lookup(view)
	if view == "" || !ok {
		return Result{Outcome: OutcomeInvalidView, Body: InvalidViewText}
	}

	out, err := p.runner.Run(ctx, v.Command)

	res := Result{Outcome: OutcomeOK, ExitCode: out.ExitCode}
	var text string
	switch {
	case errors.Is(err, ErrSpawn):
		logger.Error("log view command could not start", map[string]any{
			"view":  v.Name,
			"error": err.Error(),
		})
		res.Outcome = OutcomeUnexpected
		text = "Unexpected error: " + err.Error()
	case err != nil || out.ExitCode != 0:
		res.Outcome = OutcomeCommandError
		stderr := out.Stderr
		if err != nil {
			stderr += err.Error()
		}
		text = fmt.Sprintf("Error running command: %s\nReturn code: %d", stderr, out.ExitCode)
	default:
		text = out.Stdout
	}

	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	if v.SafeOutput {
		text = EscapeText(text)
	}
	res.Body = text
	return res
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes &, < and > and leaves quotes alone.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Session is one authenticated browser.
type Session struct {
	Token        string
	Created      time.Time
	LastActivity time.Time
}

// Store owns session persistence. Every method is safe for concurrent use.
type Store interface {
	// Create sweeps expired sessions, then persists and returns a new token.
	Create(ctx context.Context) (string, error)
	// Validate reports whether token names a live session and, if so,
	// slides its inactivity window forward. Expired or corrupt records are
	// removed as a side effect.
	Validate(ctx context.Context, token string) bool
	// Destroy removes the session. A missing session is not an error.
	Destroy(ctx context.Context, token string) error
	// Sweep removes every expired or unreadable session.
	Sweep(ctx context.Context) (int, error)
}

// Policy holds the two expiry rules.
type Policy struct {
	// MaxLifetime bounds a session from its creation regardless of use.
	MaxLifetime time.Duration
	// IdleTimeout bounds the gap between successful validations.
	IdleTimeout time.Duration
}

// Expired reports whether s has outlived either rule at now.
func (p Policy) Expired(s Session, now time.Time) bool {
	return now.Sub(s.Created) > p.MaxLifetime || now.Sub(s.LastActivity) > p.IdleTimeout
}

// Remaining is how long s stays valid without further activity.
func (p Policy) Remaining(s Session, now time.Time) time.Duration {
	absolute := s.Created.Add(p.MaxLifetime).Sub(now)
	idle := s.LastActivity.Add(p.IdleTimeout).Sub(now)
	if idle < absolute {
		return idle
	}
	return absolute
}

// record is the persisted form: two unix timestamps in fractional seconds.
type record struct {
	Created      float64 `json:"created"`
	LastActivity float64 `json:"last_activity"`
}

func encodeRecord(s Session) ([]byte, error) {
	b, err := json.Marshal(record{
		Created:      unixSeconds(s.Created),
		LastActivity: unixSeconds(s.LastActivity),
	})
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}
	return b, nil
}

// decodeRecord parses data. Absent timestamps decode as the epoch, which
// every policy treats as expired.
func decodeRecord(token string, data []byte) (Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Session{}, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return Session{
		Token:        token,
		Created:      fromUnixSeconds(r.Created),
		LastActivity: fromUnixSeconds(r.LastActivity),
	}, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"logviewer/internal/logger"
)

const (
	recordExt  = ".json"
	tempPrefix = ".tmp-"
	dirPerm    = 0o700
	recordPerm = 0o600
)

// FileStore keeps one JSON file per token in a private directory. There is
// no shared index, so concurrent requests only meet on the same token's
// file, where the last writer wins.
type FileStore struct {
	dir    string
	policy Policy
	now    func() time.Time
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first use.
func NewFileStore(dir string, policy Policy) *FileStore {
	return &FileStore{dir: dir, policy: policy, now: time.Now}
}

func (f *FileStore) path(token string) string {
	return filepath.Join(f.dir, token+recordExt)
}

func (f *FileStore) ensureDir() error {
	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return fmt.Errorf("session: create dir %s: %w", f.dir, err)
	}
	return nil
}

func (f *FileStore) Create(ctx context.Context) (string, error) {
	if err := f.ensureDir(); err != nil {
		return "", err
	}

	if n, err := f.Sweep(ctx); err != nil {
		logger.Warn("session sweep failed", map[string]any{"error": err.Error()})
	} else if n > 0 {
		logger.Debug("session sweep", map[string]any{"removed": n})
	}

	token, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := f.now()
	if err := f.write(Session{Token: token, Created: now, LastActivity: now}); err != nil {
		return "", err
	}
	return token, nil
}

func (f *FileStore) Validate(ctx context.Context, token string) bool {
	if token == "" || CheckToken(token) != nil {
		return false
	}

	p := f.path(token)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		logger.Warn("session read failed", map[string]any{"error": err.Error()})
		f.remove(p)
		return false
	}

	s, err := decodeRecord(token, data)
	if err != nil {
		logger.Debug("corrupt session removed", map[string]any{"error": err.Error()})
		f.remove(p)
		return false
	}

	now := f.now()
	if f.policy.Expired(s, now) {
		f.remove(p)
		return false
	}

	s.LastActivity = now
	if err := f.write(s); err != nil {
		logger.Warn("session renew failed", map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func (f *FileStore) Destroy(ctx context.Context, token string) error {
	if token == "" || CheckToken(token) != nil {
		return nil
	}
	err := os.Remove(f.path(token))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (f *FileStore) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("session: sweep: %w", err)
	}

	now := f.now()
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() {
			continue
		}

		name := e.Name()
		p := filepath.Join(f.dir, name)

		// Leftovers from an interrupted write.
		if strings.HasPrefix(name, tempPrefix) {
			if info, err := e.Info(); err == nil && now.Sub(info.ModTime()) > f.policy.IdleTimeout {
				if f.remove(p) {
					removed++
				}
			}
			continue
		}

		if !strings.HasSuffix(name, recordExt) {
			continue
		}

		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		var s Session
		if err == nil {
			s, err = decodeRecord(strings.TrimSuffix(name, recordExt), data)
		}
		if err != nil || f.policy.Expired(s, now) {
			if f.remove(p) {
				removed++
			}
		}
	}
	return removed, nil
}

// write replaces the token's record atomically so readers never observe a
// partial file.
func (f *FileStore) write(s Session) error {
	data, err := encodeRecord(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(recordPerm); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	if err := os.Rename(tmpName, f.path(s.Token)); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

func (f *FileStore) remove(p string) bool {
	err := os.Remove(p)
	return err == nil
}

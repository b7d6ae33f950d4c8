// Package jsonfile persists one JSON document per session under the history
// directory. Writes go through a temp file and rename so a concurrent reader
// (or a crash mid-write) never observes a half-written record.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

const (
	sessionFilePrefix = "session_"
	sessionFileSuffix = ".json"
	sessionFileMode   = 0o600
	historyDirMode    = 0o700
	tempFilePattern   = ".session-*.json.tmp"
)

type Repository struct {
	historyDir string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionRepository = (*Repository)(nil)

func NewRepository(historyDir string) (*Repository, error) {
	if historyDir == "" {
		return nil, errors.New("history directory is empty")
	}

	absDir, err := filepath.Abs(historyDir)
	if err != nil {
		return nil, fmt.Errorf("resolve history directory: %w", err)
	}
	absDir = filepath.Clean(absDir)

	return &Repository{historyDir: absDir, mu: lockForPath(absDir)}, nil
}

func (r *Repository) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("session id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeFile(session)
}

func (r *Repository) GetByID(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.readFile(id)
}

func (r *Repository) List(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.historyDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history directory: %w", err)
	}

	sessions := make([]domain.Session, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, sessionFilePrefix) || !strings.HasSuffix(name, sessionFileSuffix) {
			continue
		}

		id := domain.SessionID(strings.TrimSuffix(strings.TrimPrefix(name, sessionFilePrefix), sessionFileSuffix))
		session, err := r.readFile(id)
		if err != nil {
			// A foreign or truncated file should not hide the rest of the
			// history.
			continue
		}

		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}

func (r *Repository) Path(id domain.SessionID) string {
	return filepath.Join(r.historyDir, sessionFilePrefix+string(id)+sessionFileSuffix)
}

func (r *Repository) readFile(id domain.SessionID) (domain.Session, error) {
	data, err := os.ReadFile(r.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if file.Version != 0 && file.Version != schemaVersion {
		return domain.Session{}, fmt.Errorf("unsupported session schema version %d", file.Version)
	}

	return fromSchema(file), nil
}

func (r *Repository) writeFile(session domain.Session) error {
	if err := os.MkdirAll(r.historyDir, historyDirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(toSchema(session), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(r.historyDir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, r.Path(session.ID)); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

package responder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrPolicyUnavailable is returned while no policy document is loaded.
var ErrPolicyUnavailable = errors.New("policy document unavailable")

// PolicyStore keeps the HR policy document in memory.
type PolicyStore struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	content string
	loadErr error
}

// NewPolicyStore loads the document at path. A missing file is not an error here;
// Policy reports it until the file shows up.
func NewPolicyStore(path string, logger *zap.Logger) *PolicyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s := &PolicyStore{path: filepath.Clean(path), logger: logger}
	s.reload()
	return s
}

// Policy returns the loaded document.
func (s *PolicyStore) Policy() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadErr != nil {
		return "", fmt.Errorf("%w: %v", ErrPolicyUnavailable, s.loadErr)
	}
	if strings.TrimSpace(s.content) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrPolicyUnavailable, s.path)
	}
	return s.content, nil
}

func (s *PolicyStore) reload() {
	data, err := os.ReadFile(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.content, s.loadErr = "", err
		s.logger.Warn("policy document not loaded", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.content, s.loadErr = string(data), nil
	s.logger.Info("policy document loaded", zap.String("path", s.path), zap.Int("bytes", len(data)))
}

// Watch reloads the document whenever it is written, created, renamed or removed, until
// ctx is done. The parent directory is watched so editors that replace the file work.
func (s *PolicyStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					s.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("policy watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

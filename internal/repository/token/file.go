package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"pos-terminal/internal/domain"
)

type fileRepo struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFile stores the token as JSON at path, readable by the owner only.
func NewFile(path string, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fileRepo{path: path, logger: logger}
}

func (r *fileRepo) Save(_ context.Context, token Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	r.logger.Debug("token repo: saved", zap.String("path", r.path), zap.Int64("user_id", token.UserID))
	return nil
}

func (r *fileRepo) Get(_ context.Context) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		r.logger.Warn("token repo: unreadable token file", zap.String("path", r.path), zap.Error(err))
		return nil, domain.ErrNotFound
	}
	if t.Token == "" {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *fileRepo) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	r.logger.Debug("token repo: deleted", zap.String("path", r.path))
	return nil
}

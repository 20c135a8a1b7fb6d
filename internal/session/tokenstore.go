package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// TokenStore persists the token pair between runs. Both tokens are
// opaque strings; they are stored as-is under fixed keys.
type TokenStore interface {
	Load() (domain.TokenPair, error)
	Save(tokens domain.TokenPair) error
	Clear() error
}

var ErrNoTokens = errors.New("no stored tokens")

// FileTokenStore keeps the pair in a JSON file readable only by the
// owner.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (f *FileTokenStore) Load() (domain.TokenPair, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.TokenPair{}, ErrNoTokens
		}
		return domain.TokenPair{}, fmt.Errorf("read tokens: %w", err)
	}

	var tokens domain.TokenPair
	if err := json.Unmarshal(data, &tokens); err != nil {
		return domain.TokenPair{}, fmt.Errorf("unmarshal tokens: %w", err)
	}
	if tokens.IsZero() {
		return domain.TokenPair{}, ErrNoTokens
	}
	return tokens, nil
}

func (f *FileTokenStore) Save(tokens domain.TokenPair) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-process store for tests.
type MemoryTokenStore struct {
	m      sync.Mutex
	tokens domain.TokenPair
	held   bool
}

func (s *MemoryTokenStore) Load() (domain.TokenPair, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if !s.held {
		return domain.TokenPair{}, ErrNoTokens
	}
	return s.tokens, nil
}

func (s *MemoryTokenStore) Save(tokens domain.TokenPair) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.tokens = tokens
	s.held = true
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.m.Lock()
	defer s.m.Unlock()
	s.tokens = domain.TokenPair{}
	s.held = false
	return nil
}

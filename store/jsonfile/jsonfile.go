package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/store"
)

// JSONFileUserStore keeps the whole account mapping in a single users.json
// document. Every read loads the full document and every write rewrites it;
// a mutex serializes mutations so concurrent writers cannot clobber each
// other's updates.
type JSONFileUserStore struct {
	file string
	mu   sync.Mutex
}

func NewJSONFileUserStore(dir string) (*JSONFileUserStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user store directory: %w", err)
	}
	return &JSONFileUserStore{file: filepath.Join(dir, "users.json")}, nil
}

func (s *JSONFileUserStore) CreateUser(ctx context.Context, name string, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return models.User{}, err
	}
	if _, ok := users[name]; ok {
		return models.User{}, store.ErrUserExists
	}

	users[name] = user
	if err := s.write(users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *JSONFileUserStore) GetUser(ctx context.Context, name string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return models.User{}, err
	}
	user, ok := users[name]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (s *JSONFileUserStore) UpdateUser(ctx context.Context, name string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return err
	}
	users[name] = user
	return s.write(users)
}

func (s *JSONFileUserStore) DeleteUser(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := users[name]; !ok {
		return store.ErrUserNotFound
	}
	delete(users, name)
	return s.write(users)
}

// read loads the whole document. A missing file is an empty store; an
// unreadable or malformed one is ErrStoreUnavailable, never silently empty.
func (s *JSONFileUserStore) read() (map[string]models.User, error) {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]models.User{}, nil
		}
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	users := map[string]models.User{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	return users, nil
}

// write rewrites the whole document through a temp file and rename, so a
// failed write never leaves a truncated users.json behind.
func (s *JSONFileUserStore) write(users map[string]models.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp, s.file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}

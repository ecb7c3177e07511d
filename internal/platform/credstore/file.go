package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"
)

const (
	fileSession       = "session.json"
	fileUser          = "user.json"
	fileAuthenticated = "authenticated.json"
)

// FileStore keeps the credentials as JSON files in a private directory.
// Every write goes through a temp file and rename, so a crash mid-write
// never leaves a torn blob behind.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credstore dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveSession(_ context.Context, session *authmodels.Session) error {
	return s.write(fileSession, session)
}

func (s *FileStore) LoadSession(_ context.Context) (*authmodels.Session, error) {
	var session authmodels.Session
	ok, err := s.read(fileSession, &session)
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

func (s *FileStore) ClearSession(_ context.Context) error {
	return s.remove(fileSession)
}

func (s *FileStore) SaveUser(_ context.Context, user *usermodels.User) error {
	return s.write(fileUser, user)
}

func (s *FileStore) LoadUser(_ context.Context) (*usermodels.User, error) {
	var user usermodels.User
	ok, err := s.read(fileUser, &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (s *FileStore) ClearUser(_ context.Context) error {
	return s.remove(fileUser)
}

func (s *FileStore) SetAuthenticated(_ context.Context, v bool) error {
	return s.write(fileAuthenticated, v)
}

func (s *FileStore) IsAuthenticated(_ context.Context) (bool, error) {
	var v bool
	ok, err := s.read(fileAuthenticated, &v)
	if err != nil || !ok {
		return false, err
	}
	return v, nil
}

func (s *FileStore) write(name string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// read reports false without error when the key has never been written.
func (s *FileStore) read(name string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

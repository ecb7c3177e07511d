package credstore

import (
	"context"
	"sync"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu            sync.Mutex
	session       *authmodels.Session
	user          *usermodels.User
	authenticated bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveSession(_ context.Context, session *authmodels.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.session = &cp
	return nil
}

func (s *MemoryStore) LoadSession(_ context.Context) (*authmodels.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

func (s *MemoryStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *usermodels.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.user = &cp
	return nil
}

func (s *MemoryStore) LoadUser(_ context.Context) (*usermodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	cp := *s.user
	return &cp, nil
}

func (s *MemoryStore) ClearUser(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

func (s *MemoryStore) SetAuthenticated(_ context.Context, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = v
	return nil
}

func (s *MemoryStore) IsAuthenticated(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"crypto-ramp-backend/internal/features/auth/models"
)

// Repository is an in-memory AuthRepository used by tests.
type Repository struct {
	mu       sync.Mutex
	codes    map[string]*models.CodeRecord
	requests map[string][]time.Time
	log      []*models.AttemptLogEntry
	refresh  map[string]string
	grants   map[string]*models.LoginGrant
}

func NewRepository() *Repository {
	return &Repository{
		codes:    make(map[string]*models.CodeRecord),
		requests: make(map[string][]time.Time),
		refresh:  make(map[string]string),
		grants:   make(map[string]*models.LoginGrant),
	}
}

func (r *Repository) SaveLoginGrant(_ context.Context, grant *models.LoginGrant, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *grant
	r.grants[grant.ID] = &cp
	return nil
}

func (r *Repository) GetLoginGrant(_ context.Context, id string) (*models.LoginGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grant, ok := r.grants[id]
	if !ok {
		return nil, nil
	}
	cp := *grant
	return &cp, nil
}

func (r *Repository) SaveCode(_ context.Context, rec *models.CodeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.codes[rec.Email] = &cp
	return nil
}

func (r *Repository) GetCode(_ context.Context, email string) (*models.CodeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.codes[email]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *Repository) MarkCodeUsed(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.codes[email]; ok {
		rec.Used = true
	}
	return nil
}

func (r *Repository) RecordRequest(_ context.Context, email string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[email] = append(r.requests[email], at)
	return nil
}

func (r *Repository) CountRecentRequests(_ context.Context, email string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, at := range r.requests[email] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *Repository) AppendAttempt(_ context.Context, entry *models.AttemptLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.log = append(r.log, &cp)
	return nil
}

// Attempts returns a copy of the attempt log.
func (r *Repository) Attempts() []*models.AttemptLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AttemptLogEntry, len(r.log))
	copy(out, r.log)
	return out
}

func (r *Repository) SaveRefreshToken(_ context.Context, token, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh[token] = userID
	return nil
}

func (r *Repository) GetRefreshToken(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refresh[token], nil
}

func (r *Repository) DeleteRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refresh, token)
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/features/user/repository"
)

// Repository is an in-memory UserRepository used by tests and local runs
// without a redis instance.
type Repository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	byTG    map[int64]string
}

func NewRepository() *Repository {
	return &Repository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		byTG:    make(map[int64]string),
	}
}

func (r *Repository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *user
	r.byID[user.ID] = &cp
	if user.Email != "" {
		r.byEmail[user.Email] = user.ID
	}
	if user.TelegramID != 0 {
		r.byTG[user.TelegramID] = user.ID
	}
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byTG[telegramID]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *Repository) UpdateBankDetails(ctx context.Context, id string, details *models.BankDetails) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.BankFullName = details.FullName
	user.BankIBAN = details.IBAN
	user.BankSwiftBIC = details.SwiftBIC
	user.BankName = details.BankName
	user.BankCountry = details.Country
	user.BankDetailsStatus = true

	if err := r.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

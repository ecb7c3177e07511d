package repository

import (
	"context"
	"errors"

	"crypto-ramp-backend/internal/features/user/models"
)

var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateBankDetails writes the five bank fields and flips
	// bank_details_status in a single store write.
	UpdateBankDetails(ctx context.Context, id string, details *models.BankDetails) (*models.User, error)
}

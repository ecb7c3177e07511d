package service

import (
	"context"
	"errors"
	"time"

	"crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/features/user/repository"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// Default quotas for a freshly provisioned user, in EUR.
const (
	defaultMonthlyLimit = 10000
	defaultDailyLimit   = 1000
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error)
	GetOrCreateByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	SubmitBankDetails(ctx context.Context, id string, details *models.BankDetails) (*models.User, error)
	SetVerificationLink(ctx context.Context, id, url string) (*models.User, error)
	SetKYCVerified(ctx context.Context, id string, verified bool) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{
		repo: repo,
	}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	newUser := newUser()
	newUser.Email = email
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

func (s *userService) GetOrCreateByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	newUser := newUser()
	newUser.TelegramID = telegramID
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

func (s *userService) SubmitBankDetails(ctx context.Context, id string, details *models.BankDetails) (*models.User, error) {
	user, err := s.repo.UpdateBankDetails(ctx, id, details)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) SetVerificationLink(ctx context.Context, id, url string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.KYCVerificationURL = url
	user.KYCRequestedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetKYCVerified(ctx context.Context, id string, verified bool) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.KYCVerified = verified
	return s.repo.Update(ctx, user)
}

func newUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:             uuid.New().String(),
		MonthlyLimit:   defaultMonthlyLimit,
		DailyLimit:     defaultDailyLimit,
		LimitResetDate: firstOfNextMonth(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/features/user/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixUser     = "user:"
	keyPrefixEmail    = "user:email:"
	keyPrefixTelegram = "user:tg:"
)

type userRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefixUser+user.ID, userJSON, 0)
	if user.Email != "" {
		pipe.Set(ctx, keyPrefixEmail+user.Email, user.ID, 0)
	}
	if user.TelegramID != 0 {
		pipe.Set(ctx, fmt.Sprintf("%s%d", keyPrefixTelegram, user.TelegramID), user.ID, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	userJSON, err := r.client.Get(ctx, keyPrefixUser+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.client.Get(ctx, keyPrefixEmail+email).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	id, err := r.client.Get(ctx, fmt.Sprintf("%s%d", keyPrefixTelegram, telegramID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefixUser+user.ID, userJSON, 0).Err()
}

func (r *userRepository) UpdateBankDetails(ctx context.Context, id string, details *models.BankDetails) (*models.User, error) {
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

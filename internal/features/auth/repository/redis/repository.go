package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"crypto-ramp-backend/internal/features/auth/models"
	"crypto-ramp-backend/internal/features/auth/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixCode     = "otp:code:"
	keyPrefixRequests = "otp:requests:"
	keyPrefixLog      = "otp:log:"
	keyPrefixRefresh  = "session:refresh:"
	keyPrefixGrant    = "login:grant:"

	// Attempt log is capped per email; old entries roll off.
	attemptLogMax = 100
)

type authRepository struct {
	client *redis.Client
}

func NewAuthRepository(client *redis.Client) repository.AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) SaveCode(ctx context.Context, rec *models.CodeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal code record: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, keyPrefixCode+rec.Email, data, ttl).Err()
}

func (r *authRepository) GetCode(ctx context.Context, email string) (*models.CodeRecord, error) {
	data, err := r.client.Get(ctx, keyPrefixCode+email).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get code record: %w", err)
	}

	var rec models.CodeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal code record: %w", err)
	}
	return &rec, nil
}

func (r *authRepository) MarkCodeUsed(ctx context.Context, email string) error {
	rec, err := r.GetCode(ctx, email)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.Used = true
	return r.SaveCode(ctx, rec)
}

func (r *authRepository) RecordRequest(ctx context.Context, email string, at time.Time) error {
	key := keyPrefixRequests + email
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixNano()),
		Member: uuid.New().String(),
	})
	pipe.Expire(ctx, key, time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *authRepository) CountRecentRequests(ctx context.Context, email string, since time.Time) (int, error) {
	key := keyPrefixRequests + email

	// Trim entries that fell out of the window, then count the rest.
	if err := r.client.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(since.UnixNano()-1, 10)).Err(); err != nil {
		return 0, err
	}
	n, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *authRepository) AppendAttempt(ctx context.Context, entry *models.AttemptLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt entry: %w", err)
	}

	key := keyPrefixLog + entry.Email
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, attemptLogMax-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *authRepository) SaveLoginGrant(ctx context.Context, grant *models.LoginGrant, ttl time.Duration) error {
	data, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("failed to marshal login grant: %w", err)
	}
	return r.client.Set(ctx, keyPrefixGrant+grant.ID, data, ttl).Err()
}

func (r *authRepository) GetLoginGrant(ctx context.Context, id string) (*models.LoginGrant, error) {
	data, err := r.client.Get(ctx, keyPrefixGrant+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get login grant: %w", err)
	}

	var grant models.LoginGrant
	if err := json.Unmarshal(data, &grant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login grant: %w", err)
	}
	return &grant, nil
}

func (r *authRepository) SaveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefixRefresh+token, userID, ttl).Err()
}

func (r *authRepository) GetRefreshToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, keyPrefixRefresh+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *authRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, keyPrefixRefresh+token).Err()
}

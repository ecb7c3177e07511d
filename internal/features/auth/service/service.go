package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/features/auth/models"
	"crypto-ramp-backend/internal/features/auth/repository"
	usermodels "crypto-ramp-backend/internal/features/user/models"
	userservice "crypto-ramp-backend/internal/features/user/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrThrottled = errors.New("too many code requests")
	// ErrInvalidOrExpired is reported uniformly for a missing, used, expired
	// or mismatched code, so a caller cannot probe whether an email has an
	// active code.
	ErrInvalidOrExpired = errors.New("invalid or expired code")
	ErrInvalidSession   = errors.New("invalid session")
	ErrGrantNotFound    = errors.New("login grant not found")
)

const (
	codeTTL           = 10 * time.Minute
	throttleWindow    = 5 * time.Minute
	maxRequestsWindow = 3
	grantTTL          = 10 * time.Minute

	attemptKindRequest = "request"
	attemptKindVerify  = "verify"
)

// CodeSender dispatches a login code to an email address.
type CodeSender interface {
	SendLoginCode(email, code string, ttl time.Duration) error
}

type AuthService interface {
	RequestCode(ctx context.Context, email string) (int, error)
	VerifyCode(ctx context.Context, email, code string) (*usermodels.User, *models.Session, error)
	TelegramLogin(ctx context.Context, telegramID int64) (*usermodels.User, *models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	// ValidateAccess parses an access token and returns the owning user id.
	ValidateAccess(token string) (string, error)

	// Login grants back the external login-confirmation flow: an
	// unauthenticated device opens a grant and polls it by opaque id until
	// an authenticated user approves it.
	CreateLoginGrant(ctx context.Context) (*models.LoginGrant, error)
	ApproveLoginGrant(ctx context.Context, grantID, userID string) error
	GetLoginGrant(ctx context.Context, grantID string) (*models.LoginGrant, error)
}

type authService struct {
	repo  repository.AuthRepository
	users userservice.UserService
	mail  CodeSender

	jwtKey     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(repo repository.AuthRepository, users userservice.UserService, mail CodeSender, jwtSecret string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		users:      users,
		mail:       mail,
		jwtKey:     []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) RequestCode(ctx context.Context, email string) (int, error) {
	email = NormalizeEmail(email)
	now := time.Now()

	count, err := s.repo.CountRecentRequests(ctx, email, now.Add(-throttleWindow))
	if err != nil {
		return 0, err
	}
	if count >= maxRequestsWindow {
		s.logAttempt(ctx, email, attemptKindRequest, false)
		return 0, ErrThrottled
	}

	code, err := generateCode()
	if err != nil {
		return 0, err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("bcrypt generate: %w", err)
	}

	rec := &models.CodeRecord{
		Email:     email,
		CodeHash:  string(codeHash),
		SentAt:    now,
		ExpiresAt: now.Add(codeTTL),
	}
	if err := s.repo.SaveCode(ctx, rec); err != nil {
		return 0, err
	}
	if err := s.repo.RecordRequest(ctx, email, now); err != nil {
		return 0, err
	}

	if err := s.mail.SendLoginCode(email, code, codeTTL); err != nil {
		s.logAttempt(ctx, email, attemptKindRequest, false)
		return 0, fmt.Errorf("send login code: %w", err)
	}

	s.logAttempt(ctx, email, attemptKindRequest, true)
	return int(codeTTL.Seconds()), nil
}

func (s *authService) VerifyCode(ctx context.Context, email, code string) (*usermodels.User, *models.Session, error) {
	email = NormalizeEmail(email)

	rec, err := s.repo.GetCode(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil || rec.Used || time.Now().After(rec.ExpiresAt) {
		s.logAttempt(ctx, email, attemptKindVerify, false)
		return nil, nil, ErrInvalidOrExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)); err != nil {
		s.logAttempt(ctx, email, attemptKindVerify, false)
		return nil, nil, ErrInvalidOrExpired
	}

	// Single-use: the record is burned before the session is issued, so a
	// replay of the same code fails even inside the expiry window.
	if err := s.repo.MarkCodeUsed(ctx, email); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logAttempt(ctx, email, attemptKindVerify, true)
	return user, session, nil
}

func (s *authService) TelegramLogin(ctx context.Context, telegramID int64) (*usermodels.User, *models.Session, error) {
	user, err := s.users.GetOrCreateByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	userID, err := s.repo.GetRefreshToken(ctx, strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrInvalidSession
	}

	// Rotation: the old token is dead the moment a new pair is issued.
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueSession(ctx, userID)
}

func (s *authService) ValidateAccess(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidSession
	}
	return sub, nil
}

func (s *authService) CreateLoginGrant(ctx context.Context) (*models.LoginGrant, error) {
	grant := &models.LoginGrant{
		ID:        uuid.New().String(),
		Status:    models.GrantPending,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveLoginGrant(ctx, grant, grantTTL); err != nil {
		return nil, err
	}
	return grant, nil
}

func (s *authService) ApproveLoginGrant(ctx context.Context, grantID, userID string) error {
	grant, err := s.repo.GetLoginGrant(ctx, grantID)
	if err != nil {
		return err
	}
	if grant == nil || grant.Status != models.GrantPending {
		return ErrGrantNotFound
	}

	session, err := s.issueSession(ctx, userID)
	if err != nil {
		return err
	}

	grant.Status = models.GrantApproved
	grant.Session = session
	return s.repo.SaveLoginGrant(ctx, grant, grantTTL)
}

func (s *authService) GetLoginGrant(ctx context.Context, grantID string) (*models.LoginGrant, error) {
	grant, err := s.repo.GetLoginGrant(ctx, grantID)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, ErrGrantNotFound
	}
	return grant, nil
}

func (s *authService) issueSession(ctx context.Context, userID string) (*models.Session, error) {
	expiresAt := time.Now().Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := newRefreshToken(32)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh, userID, s.refreshTTL); err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// logAttempt is best-effort: a failed log write never blocks the handshake.
func (s *authService) logAttempt(ctx context.Context, email, kind string, success bool) {
	entry := &models.AttemptLogEntry{
		Email:   email,
		Kind:    kind,
		Success: success,
		At:      time.Now(),
	}
	if err := s.repo.AppendAttempt(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("email", email).Str("kind", kind).Msg("Failed to append auth attempt")
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func newRefreshToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

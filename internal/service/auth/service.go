package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/repository"
	"servicehub/internal/service/notification"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("password reset token has expired")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)

const resetTokenTTL = time.Hour

type Service interface {
	RegisterHomeowner(ctx context.Context, input domain.RegisterHomeownerInput) (*domain.User, *domain.TokenPair, error)
	RegisterTradesperson(ctx context.Context, input domain.RegisterTradespersonInput) (*domain.User, *domain.TokenPair, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.User, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Claims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	walletRepo  repository.WalletRepository
	notifSvc    notification.Service
	cache       cache.Store
	cfg         *config.Config
	logger      *zap.Logger
}

func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	walletRepo repository.WalletRepository,
	notifSvc notification.Service,
	cacheStore cache.Store,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		walletRepo:  walletRepo,
		notifSvc:    notifSvc,
		cache:       cacheStore,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *service) RegisterHomeowner(ctx context.Context, input domain.RegisterHomeownerInput) (*domain.User, *domain.TokenPair, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, nil, err
	}

	user := newUser(input, domain.RoleHomeowner)
	return s.register(ctx, user, input.Password)
}

func (s *service) RegisterTradesperson(ctx context.Context, input domain.RegisterTradespersonInput) (*domain.User, *domain.TokenPair, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, nil, err
	}

	user := newUser(input.RegisterHomeownerInput, domain.RoleTradesperson)
	user.TradeCategories = input.TradeCategories
	user.ExperienceYears = input.ExperienceYears
	user.CompanyName = input.CompanyName
	user.Description = input.Description
	user.Certifications = input.Certifications
	if user.Certifications == nil {
		user.Certifications = []string{}
	}
	return s.register(ctx, user, input.Password)
}

func newUser(input domain.RegisterHomeownerInput, role domain.UserRole) *domain.User {
	user := &domain.User{
		ID:              uuid.New(),
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Role:            role,
		Status:          domain.UserStatusActive,
		Location:        input.Location,
		Postcode:        input.Postcode,
		State:           input.State,
		LGA:             input.LGA,
		Town:            input.Town,
		TradeCategories: []string{},
		Certifications:  []string{},
	}
	return user
}

func (s *service) register(ctx context.Context, user *domain.User, password string) (*domain.User, *domain.TokenPair, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, err
	}

	if _, err := s.walletRepo.GetOrCreate(ctx, user.ID); err != nil {
		return nil, nil, fmt.Errorf("create wallet: %w", err)
	}
	if err := s.notifSvc.CreateDefaultPreferences(ctx, user.ID); err != nil {
		s.logger.Warn("failed to create notification preferences",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.notifSvc.Notify(ctx, user.ID, domain.NotifWelcome, map[string]interface{}{
		"role":    string(user.Role),
		"app_url": fmt.Sprintf("https://%s", s.cfg.Domain),
	})

	return user, tokens, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.User, *domain.TokenPair, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.checkLoginRate(ctx, input.Email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == domain.UserStatusSuspended || user.Status == domain.UserStatusBanned {
		return nil, nil, ErrAccountSuspended
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.LoginAttemptsKey(input.Email))
	}
	return user, tokens, nil
}

// checkLoginRate counts attempts per email in a fixed window. Redis failures let the
// attempt through so an outage does not lock everyone out.
func (s *service) checkLoginRate(ctx context.Context, email string) error {
	if s.cache == nil || s.cfg.LoginRateLimit <= 0 {
		return nil
	}

	attempts, err := s.cache.IncrementWithExpiry(ctx, cache.LoginAttemptsKey(email), s.cfg.LoginRateWindow)
	if err != nil {
		s.logger.Warn("login rate limit unavailable", zap.Error(err))
		return nil
	}
	if attempts > s.cfg.LoginRateLimit {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, ErrAccountSuspended
	}

	revoked, err := s.sessionRepo.Revoke(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if !revoked {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user)
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllForUser(ctx, userID)
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()
	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenRaw, err := randomToken()
	if err != nil {
		return nil, err
	}

	session := &repository.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: now.Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenRaw,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	resetToken, err := randomToken()
	if err != nil {
		return err
	}

	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, hashToken(resetToken), time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	s.notifSvc.Notify(ctx, user.ID, domain.NotifPasswordReset, map[string]interface{}{
		"reset_url": fmt.Sprintf("https://%s/reset-password?token=%s", s.cfg.Domain, resetToken),
	})
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}

	user, err := s.userRepo.GetUserByResetToken(ctx, hashToken(token))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	if user.PasswordResetExpiresAt == nil || time.Now().After(*user.PasswordResetExpiresAt) {
		return ErrTokenExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return err
	}
	if err := s.userRepo.ClearPasswordResetToken(ctx, user.ID); err != nil {
		return err
	}

	return s.sessionRepo.RevokeAllForUser(ctx, user.ID)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

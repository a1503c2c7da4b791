package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/storage"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrNotAnImage        = errors.New("avatar must be an image")
)

const avatarFolder = "avatars"

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input domain.ChangePasswordInput) error
	UploadAvatar(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*domain.User, error)
}

type service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	storage     storage.Storage
	logger      *zap.Logger
}

func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, store storage.Storage, logger *zap.Logger) Service {
	return &service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		storage:     store,
		logger:      logger,
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	profile, err := s.userRepo.GetPublicProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < 2 {
			return nil, domain.NewValidationError("name must be at least 2 characters")
		}
		user.Name = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, domain.NewValidationError("phone cannot be empty")
		}
		user.Phone = phone
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Postcode != nil {
		user.Postcode = *input.Postcode
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.LGA != nil {
		user.LGA = *input.LGA
	}
	if input.Town != nil {
		user.Town = *input.Town
	}

	if user.IsTradesperson() {
		if input.TradeCategories != nil {
			if len(*input.TradeCategories) == 0 {
				return nil, domain.NewValidationError("at least one trade category is required")
			}
			user.TradeCategories = *input.TradeCategories
		}
		if input.ExperienceYears != nil {
			if *input.ExperienceYears < 0 {
				return nil, domain.NewValidationError("experience_years cannot be negative")
			}
			user.ExperienceYears = *input.ExperienceYears
		}
		if input.CompanyName != nil {
			user.CompanyName = *input.CompanyName
		}
		if input.Description != nil {
			user.Description = *input.Description
		}
		if input.Certifications != nil {
			user.Certifications = *input.Certifications
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, input domain.ChangePasswordInput) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}
	if len(input.NewPassword) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, string(hashed)); err != nil {
		return err
	}

	// Refresh tokens issued under the old password stop working; access tokens run out on their own.
	if err := s.sessionRepo.RevokeAllForUser(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions after password change", zap.String("user_id", id.String()), zap.Error(err))
	}
	return nil
}

func (s *service) UploadAvatar(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*domain.User, error) {
	if !storage.IsImage(contentType) {
		return nil, ErrNotAnImage
	}
	if err := storage.Validate(contentType, size); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	obj, err := s.storage.Save(ctx, path.Join(avatarFolder, id.String()), fileName, contentType, reader, size)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, id, obj.URL); err != nil {
		if rmErr := s.storage.Remove(ctx, obj.Key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned avatar", zap.String("key", obj.Key), zap.Error(rmErr))
		}
		return nil, err
	}

	user.AvatarURL = &obj.URL
	return user, nil
}

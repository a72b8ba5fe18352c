package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// UpdateProfile changes the display name and the currency amounts are shown in.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, currency string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	if currency != "" {
		code, err := money.ParseCurrency(currency)
		if err != nil {
			return nil, validation.Invalid("currency", "unknown currency code %q", currency)
		}
		user.Currency = code
	}
	user.Name = strings.TrimSpace(name)

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

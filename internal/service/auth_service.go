package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrWeakPassword       = errors.New("password too short")
)

var phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)

// AuthService registers users and verifies credentials. New accounts start
// with the signup bonus already on their balance.
type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates the account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, phone, password, name string) (*domain.User, string, error) {
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return nil, "", ErrInvalidPhone
	}
	if len(password) < 6 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Phone:        phone,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the credentials and returns the account with a session
// token. Unknown phone and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/auth"
)

// UserService handles registration and login.
type UserService struct {
	userRepo repositories.UserRepository
	issuer   *auth.TokenIssuer
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, issuer *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Register creates a user account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(email, name, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issuer.GenerateUserToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User registered", zap.String("userID", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	token, err := s.issuer.GenerateUserToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

// GetUser loads a user profile by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return user, nil
}

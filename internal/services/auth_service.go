package services

import (
	"context"
	"errors"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/config"
	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"github.com/gwlabs/giveaway-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so a
// login probe can't tell which it hit.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Compile-time check to ensure authService implements AuthService
var _ AuthService = (*authService)(nil)

// AuthService handles moderator registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Moderator, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
}

type authService struct {
	moderatorRepo repositories.ModeratorRepository
	cfg           *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(moderatorRepo repositories.ModeratorRepository, cfg *config.Config) AuthService {
	return &authService{
		moderatorRepo: moderatorRepo,
		cfg:           cfg,
	}
}

// Register creates a moderator account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Moderator, error) {
	_, err := s.moderatorRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ValidationError{Reason: "a moderator with this email already exists"}
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	moderator := &models.Moderator{
		Email:     req.Email,
		Password:  string(hashed),
		Role:      "moderator",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.moderatorRepo.Create(ctx, moderator); err != nil {
		return nil, err
	}

	moderator.Password = ""
	return moderator, nil
}

// Login verifies credentials and returns a signed JWT.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	moderator, err := s.moderatorRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(moderator.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(moderator.ID.Hex(), moderator.Email, moderator.Role, s.cfg)
}

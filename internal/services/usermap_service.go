package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure userMapService implements UserMapService
var _ UserMapService = (*userMapService)(nil)

// UserMapService manages participant-to-partner-username links.
type UserMapService interface {
	Link(ctx context.Context, userID, partnerUsername string) error
	Get(ctx context.Context, userID string) (*models.UserMapping, error)
	Unlink(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*models.UserMapping, error)
}

type userMapService struct {
	userMapRepo repositories.UserMapRepository
}

// NewUserMapService creates a new UserMapService
func NewUserMapService(userMapRepo repositories.UserMapRepository) UserMapService {
	return &userMapService{userMapRepo: userMapRepo}
}

// Link records or replaces the partner username for a user. Latest write
// wins.
func (s *userMapService) Link(ctx context.Context, userID, partnerUsername string) error {
	if userID == "" || partnerUsername == "" {
		return &ValidationError{Reason: "user id and partner username are required"}
	}
	mapping := &models.UserMapping{
		UserID:          userID,
		PartnerUsername: partnerUsername,
		UpdatedAt:       time.Now(),
	}
	if err := s.userMapRepo.Upsert(ctx, mapping); err != nil {
		return fmt.Errorf("failed to save user mapping: %w", err)
	}
	return nil
}

func (s *userMapService) Get(ctx context.Context, userID string) (*models.UserMapping, error) {
	mapping, err := s.userMapRepo.FindByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoMapping
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user mapping: %w", err)
	}
	return mapping, nil
}

func (s *userMapService) Unlink(ctx context.Context, userID string) error {
	if _, err := s.userMapRepo.FindByUserID(ctx, userID); err == mongo.ErrNoDocuments {
		return ErrNoMapping
	} else if err != nil {
		return fmt.Errorf("failed to find user mapping: %w", err)
	}
	if err := s.userMapRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user mapping: %w", err)
	}
	return nil
}

func (s *userMapService) List(ctx context.Context) ([]*models.UserMapping, error) {
	mappings, err := s.userMapRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user mappings: %w", err)
	}
	return mappings, nil
}

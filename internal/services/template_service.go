package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure templateService implements TemplateService
var _ TemplateService = (*templateService)(nil)

// TemplateService manages the per-guild saved giveaway templates.
type TemplateService interface {
	Create(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) error
	Get(ctx context.Context, guildID, name string) (*models.Template, error)
	List(ctx context.Context, guildID string) ([]*models.Template, error)
	Delete(ctx context.Context, guildID, name string) error
}

type templateService struct {
	templateRepo repositories.TemplateRepository
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo repositories.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func validateTemplate(template *models.Template) error {
	if template.Name == "" {
		return &ValidationError{Reason: "template name is required"}
	}
	if !models.ValidGiveawayType(template.Type) {
		return &ValidationError{Reason: fmt.Sprintf("unknown giveaway type %q", template.Type)}
	}
	if template.Currency != "" && !validCurrencies[template.Currency] {
		return &ValidationError{Reason: fmt.Sprintf("unknown currency %q", template.Currency)}
	}
	if template.DurationMinutes < 1 {
		return &ValidationError{Reason: "duration must be at least 1 minute"}
	}
	if template.NumWinners < 1 {
		return &ValidationError{Reason: "winner count must be at least 1"}
	}
	return nil
}

func (s *templateService) Create(ctx context.Context, template *models.Template) error {
	if err := validateTemplate(template); err != nil {
		return err
	}
	if _, err := s.templateRepo.FindByName(ctx, template.GuildID, template.Name); err == nil {
		return &ValidationError{Reason: fmt.Sprintf("template %q already exists", template.Name)}
	} else if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to check template name: %w", err)
	}
	template.TemplateID = uuid.New().String()
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *templateService) Update(ctx context.Context, template *models.Template) error {
	if err := validateTemplate(template); err != nil {
		return err
	}
	existing, err := s.templateRepo.FindByName(ctx, template.GuildID, template.Name)
	if err == mongo.ErrNoDocuments {
		return ErrTemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find template: %w", err)
	}
	template.TemplateID = existing.TemplateID
	if err := s.templateRepo.Update(ctx, template); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

func (s *templateService) Get(ctx context.Context, guildID, name string) (*models.Template, error) {
	template, err := s.templateRepo.FindByName(ctx, guildID, name)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return template, nil
}

func (s *templateService) List(ctx context.Context, guildID string) ([]*models.Template, error) {
	templates, err := s.templateRepo.FindAll(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *templateService) Delete(ctx context.Context, guildID, name string) error {
	if _, err := s.templateRepo.FindByName(ctx, guildID, name); err == mongo.ErrNoDocuments {
		return ErrTemplateNotFound
	} else if err != nil {
		return fmt.Errorf("failed to find template: %w", err)
	}
	if err := s.templateRepo.DeleteByName(ctx, guildID, name); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

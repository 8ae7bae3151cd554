package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
)

// templateRepository implements the TemplateRepository interface
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) repositories.TemplateRepository {
	return &templateRepository{db: db}
}

// FindByID retrieves a template by its ID
func (r *templateRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewTemplate, error) {
	var tmpl entities.InterviewTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

// List retrieves templates with pagination
func (r *templateRepository) List(ctx context.Context, limit, offset int) ([]*entities.InterviewTemplate, int64, error) {
	var templates []*entities.InterviewTemplate
	var total int64

	if err := r.db.WithContext(ctx).Model(&entities.InterviewTemplate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

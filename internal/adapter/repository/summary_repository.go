package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
)

// summaryRepository implements the SummaryRepository interface
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepository{db: db}
}

// Save persists a final summary
func (r *summaryRepository) Save(ctx context.Context, summary *entities.FinalSummary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

// FindByInterviewID retrieves the summary for an interview, nil when absent
func (r *summaryRepository) FindByInterviewID(ctx context.Context, interviewID uuid.UUID) (*entities.FinalSummary, error) {
	var summary entities.FinalSummary
	if err := r.db.WithContext(ctx).Where("interview_id = ?", interviewID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

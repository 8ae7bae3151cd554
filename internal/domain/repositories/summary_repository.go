package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// SummaryRepository persists final interview summaries
type SummaryRepository interface {
	Save(ctx context.Context, summary *entities.FinalSummary) error
	FindByInterviewID(ctx context.Context, interviewID uuid.UUID) (*entities.FinalSummary, error)
}

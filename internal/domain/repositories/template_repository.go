package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// TemplateRepository reads interview templates. Authoring is out of scope,
// so there is no write surface here.
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewTemplate, error)
	List(ctx context.Context, limit, offset int) ([]*entities.InterviewTemplate, int64, error)
}

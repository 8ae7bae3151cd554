package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// InterviewRepository persists interviews and their status transitions
type InterviewRepository interface {
	Create(ctx context.Context, interview *entities.Interview) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InterviewStatus) error
	MarkStarted(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	SetMediaRoom(ctx context.Context, id uuid.UUID, roomName string) error
	SetRecordingURL(ctx context.Context, id uuid.UUID, recordingURL string) error
}

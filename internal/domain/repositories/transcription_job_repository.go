package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// TranscriptionJobRepository persists async audit transcription jobs
type TranscriptionJobRepository interface {
	Create(ctx context.Context, job *entities.TranscriptionJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptionJob, error)
	FindByExternalID(ctx context.Context, externalID string) (*entities.TranscriptionJob, error)
	FindByStatus(ctx context.Context, status entities.TranscriptionJobStatus, limit int) ([]entities.TranscriptionJob, error)
	// ClaimPending atomically moves a pending job to submitted; returns false
	// when another worker claimed it first.
	ClaimPending(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSubmitted(ctx context.Context, id uuid.UUID, externalID string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, text string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

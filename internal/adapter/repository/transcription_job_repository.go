package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
)

// transcriptionJobRepository implements the TranscriptionJobRepository interface
type transcriptionJobRepository struct {
	db *gorm.DB
}

// NewTranscriptionJobRepository creates a new transcription job repository
func NewTranscriptionJobRepository(db *gorm.DB) repositories.TranscriptionJobRepository {
	return &transcriptionJobRepository{db: db}
}

// Create creates a new transcription job
func (r *transcriptionJobRepository) Create(ctx context.Context, job *entities.TranscriptionJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by ID, nil when absent
func (r *transcriptionJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptionJob, error) {
	var job entities.TranscriptionJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByExternalID retrieves a job by the provider's transcript id
func (r *transcriptionJobRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.TranscriptionJob, error) {
	var job entities.TranscriptionJob
	if err := r.db.WithContext(ctx).Where("external_job_id = ?", externalID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByStatus retrieves jobs in a status, oldest first
func (r *transcriptionJobRepository) FindByStatus(ctx context.Context, status entities.TranscriptionJobStatus, limit int) ([]entities.TranscriptionJob, error) {
	var jobs []entities.TranscriptionJob
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ClaimPending atomically claims a pending job for submission. The WHERE
// clause on the current status guarantees only one worker wins.
func (r *transcriptionJobRepository) ClaimPending(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.TranscriptionJob{}).
		Where("id = ? AND status = ?", id, entities.TranscriptionJobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.TranscriptionJobStatusSubmitted,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkSubmitted stores the provider's transcript id on the job
func (r *transcriptionJobRepository) MarkSubmitted(ctx context.Context, id uuid.UUID, externalID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.TranscriptionJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"external_job_id": externalID,
			"status":          entities.TranscriptionJobStatusSubmitted,
			"updated_at":      time.Now(),
		}).Error
}

// MarkCompleted stores the transcript text and completes the job
func (r *transcriptionJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, text string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.TranscriptionJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.TranscriptionJobStatusCompleted,
			"text":         text,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed records a failure; jobs under the retry budget go back to
// pending so the worker picks them up again.
func (r *transcriptionJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job entities.TranscriptionJob
		if err := tx.Where("id = ?", id).First(&job).Error; err != nil {
			return err
		}

		status := entities.TranscriptionJobStatusFailed
		if job.RetryCount+1 < job.MaxRetries {
			status = entities.TranscriptionJobStatusPending
		}

		return tx.Model(&entities.TranscriptionJob{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":      status,
				"retry_count": job.RetryCount + 1,
				"last_error":  reason,
				"updated_at":  time.Now(),
			}).Error
	})
}

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

// interviewRepository implements the InterviewRepository interface
type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *gorm.DB) repositories.InterviewRepository {
	return &interviewRepository{db: db}
}

// Create creates a new interview
func (r *interviewRepository) Create(ctx context.Context, interview *entities.Interview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

// FindByID retrieves an interview with its template preloaded
func (r *interviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error) {
	var interview entities.Interview
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("id = ?", id).
		First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrInterviewNotFound
		}
		return nil, err
	}
	return &interview, nil
}

// UpdateStatus updates the interview status
func (r *interviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InterviewStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// MarkStarted records the session start and moves the interview to in_progress
func (r *interviewRepository) MarkStarted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.InterviewStatusInProgress,
			"started_at": now,
			"updated_at": now,
		}).Error
}

// MarkCompleted records completion time and final status
func (r *interviewRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.InterviewStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// SetMediaRoom stores the media room name assigned to this interview
func (r *interviewRepository) SetMediaRoom(ctx context.Context, id uuid.UUID, roomName string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"media_room_name": roomName,
			"updated_at":      time.Now(),
		}).Error
}

// SetRecordingURL stores the uploaded session recording location
func (r *interviewRepository) SetRecordingURL(ctx context.Context, id uuid.UUID, recordingURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recording_url": recordingURL,
			"updated_at":    time.Now(),
		}).Error
}

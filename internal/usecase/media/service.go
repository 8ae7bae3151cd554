package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
	"github.com/voxhire/interview-engine/internal/infrastructure/external/livekit"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
)

// FileLinker resolves a bucket object to a fetchable URL. Satisfied by the
// MinIO client; the transcription provider pulls recordings through it.
type FileLinker interface {
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Access is everything a browser needs to join the interview's media room
type Access struct {
	URL      string `json:"url"`
	RoomName string `json:"room_name"`
	Token    string `json:"token"`
}

// Service provisions one LiveKit room per interview, records it, and hands
// the finished recording to the audit pipeline.
type Service struct {
	media      livekit.Client
	interviews repositories.InterviewRepository
	jobs       repositories.TranscriptionJobRepository
	files      FileLinker
	serverURL  string
	linkExpiry time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	egressBy map[uuid.UUID]string
}

// NewService creates a new media service
func NewService(
	media livekit.Client,
	interviews repositories.InterviewRepository,
	jobs repositories.TranscriptionJobRepository,
	files FileLinker,
	serverURL string,
	linkExpiry time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		media:      media,
		interviews: interviews,
		jobs:       jobs,
		files:      files,
		serverURL:  serverURL,
		linkExpiry: linkExpiry,
		logger:     logger,
		egressBy:   make(map[uuid.UUID]string),
	}
}

// OpenRoom creates the interview's media room and starts the audio recording.
// Safe to call again when a candidate reconnects; the room is reused and a
// second egress is not started.
func (s *Service) OpenRoom(ctx context.Context, interviewID uuid.UUID) (*livekit.RoomInfo, error) {
	room, err := s.media.EnsureRoom(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrMediaRoom, err)
	}

	if err := s.interviews.SetMediaRoom(ctx, interviewID, room.Name); err != nil {
		return nil, fmt.Errorf("failed to store media room: %w", err)
	}

	s.mu.Lock()
	_, recording := s.egressBy[interviewID]
	s.mu.Unlock()
	if recording {
		return room, nil
	}

	egressID, err := s.media.StartRecording(ctx, interviewID)
	if err != nil {
		// the interview proceeds unrecorded rather than blocking the candidate
		if s.logger != nil {
			s.logger.Warn("failed to start room recording",
				zap.String("interview_id", interviewID.String()),
				zap.Error(err))
		}
		return room, nil
	}

	s.mu.Lock()
	s.egressBy[interviewID] = egressID
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("✅ Room recording started",
			zap.String("room", room.Name),
			zap.String("egress_id", egressID))
	}
	return room, nil
}

// JoinToken issues a LiveKit access token for the interview room
func (s *Service) JoinToken(interviewID uuid.UUID, identity, displayName, role string) (*Access, error) {
	token, err := s.media.JoinToken(interviewID, identity, displayName, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrMediaToken, err)
	}

	return &Access{
		URL:      s.serverURL,
		RoomName: livekit.RoomName(interviewID),
		Token:    token,
	}, nil
}

// CloseRoom stops the recording, tears the room down, and enqueues the
// recording for audit transcription. Recording failures are logged and
// skipped; interview completion never depends on the audit artifacts.
func (s *Service) CloseRoom(ctx context.Context, interviewID uuid.UUID) error {
	s.mu.Lock()
	egressID, recorded := s.egressBy[interviewID]
	delete(s.egressBy, interviewID)
	s.mu.Unlock()

	if recorded {
		if err := s.media.StopRecording(ctx, egressID); err != nil && s.logger != nil {
			s.logger.Warn("failed to stop room recording",
				zap.String("egress_id", egressID),
				zap.Error(err))
		}
	}

	if err := s.media.CloseRoom(ctx, interviewID); err != nil {
		return fmt.Errorf("%w: %v", uerrors.ErrMediaRoom, err)
	}

	if recorded {
		if err := s.enqueueAudit(ctx, interviewID); err != nil && s.logger != nil {
			s.logger.Warn("failed to enqueue audit transcription",
				zap.String("interview_id", interviewID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// Participants lists everyone currently in the interview room
func (s *Service) Participants(ctx context.Context, interviewID uuid.UUID) ([]*livekit.ParticipantInfo, error) {
	participants, err := s.media.ListParticipants(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrMediaRoom, err)
	}
	return participants, nil
}

// EjectParticipant removes a participant from the interview room
func (s *Service) EjectParticipant(ctx context.Context, interviewID uuid.UUID, identity string) error {
	if err := s.media.RemoveParticipant(ctx, interviewID, identity); err != nil {
		return fmt.Errorf("%w: %v", uerrors.ErrMediaRoom, err)
	}
	return nil
}

func (s *Service) enqueueAudit(ctx context.Context, interviewID uuid.UUID) error {
	objectName := livekit.RecordingObjectName(interviewID)
	recordingURL, err := s.files.GetFileURL(ctx, objectName, s.linkExpiry)
	if err != nil {
		return fmt.Errorf("failed to resolve recording url: %w", err)
	}

	if err := s.interviews.SetRecordingURL(ctx, interviewID, recordingURL); err != nil {
		return fmt.Errorf("failed to store recording url: %w", err)
	}

	job := entities.NewTranscriptionJob(interviewID, recordingURL)
	if err := s.jobs.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to create transcription job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔄 Audit transcription queued",
			zap.String("interview_id", interviewID.String()),
			zap.String("job_id", job.ID.String()))
	}
	return nil
}

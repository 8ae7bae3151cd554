package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
	pkgai "github.com/voxhire/interview-engine/pkg/ai"
	"github.com/voxhire/interview-engine/pkg/jobcontext"
)

const (
	pendingPollInterval = 30 * time.Second
	stalePollInterval   = 5 * time.Minute
	staleAfter          = 10 * time.Minute
	pendingBatchSize    = 10
)

// Service runs the async audit transcription pipeline. Jobs are enqueued
// when an interview's media room closes; nothing on the live turn path
// waits for them.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type auditService struct {
	jobs          repositories.TranscriptionJobRepository
	speech        *pkgai.SpeechClient
	webhookSecret string
	logger        *zap.Logger

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the audit transcription service
func NewService(
	jobs repositories.TranscriptionJobRepository,
	speech *pkgai.SpeechClient,
	webhookSecret string,
	logger *zap.Logger,
) Service {
	return &auditService{
		jobs:          jobs,
		speech:        speech,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// StartWorkerPool starts background workers that submit pending recordings
// and recover jobs whose webhook never arrived
func (s *auditService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting audit worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.pendingJobWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.staleJobWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *auditService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping audit worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Audit worker pool stopped")
	}

	return nil
}

// pendingJobWorker polls for pending jobs and submits their recordings
func (s *auditService) pendingJobWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Audit worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Audit worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			jobs, err := s.jobs.FindByStatus(parentCtx, entities.TranscriptionJobStatusPending, pendingBatchSize)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll pending jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}

			for i := range jobs {
				job := jobs[i]

				// only one worker wins the claim
				claimed, err := s.jobs.ClaimPending(parentCtx, job.ID)
				if err != nil {
					if s.logger != nil {
						s.logger.Error("❌ Failed to claim job",
							zap.String("job_id", job.ID.String()),
							zap.Error(err),
						)
					}
					continue
				}
				if !claimed {
					continue
				}

				if s.logger != nil {
					s.logger.Info("👷 Worker claimed job",
						zap.Int("worker_id", workerID),
						zap.String("job_id", job.ID.String()),
						zap.String("interview_id", job.InterviewID.String()),
					)
				}

				jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, "audit_transcription", workerID)
				err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
					return s.submitJob(ctx, &job)
				})
				elapsed := jobcontext.Elapsed(jobCtx)
				cancel()

				if err != nil {
					if s.logger != nil {
						s.logger.Error("❌ Job submission failed",
							zap.String("job_id", job.ID.String()),
							zap.Int("worker_id", jobcontext.WorkerID(jobCtx)),
							zap.Duration("elapsed", elapsed),
							zap.Error(err),
						)
					}
					// MarkFailed re-queues the job while retries remain
					s.jobs.MarkFailed(parentCtx, job.ID, err.Error())
					continue
				}

				if s.logger != nil {
					s.logger.Info("✅ Job submitted",
						zap.String("job_id", job.ID.String()),
						zap.Int("worker_id", jobcontext.WorkerID(jobCtx)),
						zap.Duration("elapsed", elapsed),
					)
				}
			}
		}
	}
}

// submitJob hands the recording to the transcription provider and stores the
// external id before returning, so the webhook can always resolve the job
func (s *auditService) submitJob(ctx context.Context, job *entities.TranscriptionJob) error {
	var externalID string

	submitFn := func() error {
		id, err := s.speech.SubmitRecording(ctx, job.RecordingURL)
		if err != nil {
			return err
		}
		externalID = id

		// the webhook can arrive within seconds of submission
		if err := s.jobs.MarkSubmitted(ctx, job.ID, externalID); err != nil {
			return fmt.Errorf("failed to store external job id: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("✅ Recording submitted for transcription",
			zap.String("job_id", job.ID.String()),
			zap.String("external_id", externalID),
		)
	}
	return nil
}

// staleJobWorker polls the provider directly for submitted jobs whose
// webhook never arrived
func (s *auditService) staleJobWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(stalePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			jobs, err := s.jobs.FindByStatus(parentCtx, entities.TranscriptionJobStatusSubmitted, pendingBatchSize)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll submitted jobs", zap.Error(err))
				}
				continue
			}

			for i := range jobs {
				job := jobs[i]
				if job.StartedAt == nil || time.Since(*job.StartedAt) < staleAfter {
					continue
				}
				if job.ExternalJobID == nil {
					continue
				}

				if s.logger != nil {
					s.logger.Info("🔄 Polling stale transcription job",
						zap.String("job_id", job.ID.String()),
						zap.String("external_id", *job.ExternalJobID),
					)
				}

				if err := s.resolveJob(parentCtx, &job, *job.ExternalJobID); err != nil && s.logger != nil {
					s.logger.Error("❌ Failed to resolve stale job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
			}
		}
	}
}

// HandleWebhook processes transcription provider callbacks
func (s *auditService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret != "" && !pkgai.VerifyHMAC(s.webhookSecret, payload, signature) {
		if s.logger != nil {
			s.logger.Warn("invalid transcription webhook signature")
		}
		return fmt.Errorf("invalid webhook signature")
	}

	var body struct {
		TranscriptID string `json:"transcript_id"`
		ID           string `json:"id"`
		Status       string `json:"status"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	externalID := body.TranscriptID
	if externalID == "" {
		externalID = body.ID
	}
	if externalID == "" {
		return fmt.Errorf("transcript id missing in webhook")
	}

	job, err := s.jobs.FindByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to find transcription job: %w", err)
	}
	if job == nil {
		if s.logger != nil {
			s.logger.Warn("no job for transcript",
				zap.String("external_id", externalID),
			)
		}
		return fmt.Errorf("no job for transcript %s", externalID)
	}

	switch body.Status {
	case "completed":
		return s.resolveJob(ctx, job, externalID)

	case "error":
		reason := body.Error
		if reason == "" {
			reason = "transcription provider reported an error"
		}
		if err := s.jobs.MarkFailed(ctx, job.ID, reason); err != nil {
			return fmt.Errorf("failed to mark job failed: %w", err)
		}
		if s.logger != nil {
			s.logger.Error("transcription provider error",
				zap.String("job_id", job.ID.String()),
				zap.String("reason", reason),
			)
		}

	default:
		// queued / processing updates carry no work for us
	}

	return nil
}

// resolveJob fetches the finished transcript and stores its text
func (s *auditService) resolveJob(ctx context.Context, job *entities.TranscriptionJob, externalID string) error {
	transcript, err := s.speech.GetTranscript(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript: %w", err)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		text := ""
		if transcript.Text != nil {
			text = *transcript.Text
		}
		if err := s.jobs.MarkCompleted(ctx, job.ID, text); err != nil {
			return fmt.Errorf("failed to store transcript: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("✅ Audit transcript stored",
				zap.String("job_id", job.ID.String()),
				zap.String("interview_id", job.InterviewID.String()),
				zap.Int("text_length", len(text)),
			)
		}

	case aai.TranscriptStatusError:
		reason := "transcription failed"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		if err := s.jobs.MarkFailed(ctx, job.ID, reason); err != nil {
			return fmt.Errorf("failed to mark job failed: %w", err)
		}

	default:
		// still processing; the webhook or the stale poller will come back
	}

	return nil
}

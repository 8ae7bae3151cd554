package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/infrastructure/external/livekit"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
)

type fakeMediaClient struct {
	participants []*livekit.ParticipantInfo
	removed      []string
	listErr      error
	removeErr    error
	startErr     error
	stopped      []string
	closed       []uuid.UUID
	startCalls   int
}

func (f *fakeMediaClient) EnsureRoom(ctx context.Context, interviewID uuid.UUID) (*livekit.RoomInfo, error) {
	return &livekit.RoomInfo{Name: livekit.RoomName(interviewID), SID: "RM_fake"}, nil
}

func (f *fakeMediaClient) CloseRoom(ctx context.Context, interviewID uuid.UUID) error {
	f.closed = append(f.closed, interviewID)
	return nil
}

func (f *fakeMediaClient) JoinToken(interviewID uuid.UUID, identity, displayName, role string) (string, error) {
	return "token-" + identity, nil
}

func (f *fakeMediaClient) ListParticipants(ctx context.Context, interviewID uuid.UUID) ([]*livekit.ParticipantInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.participants, nil
}

func (f *fakeMediaClient) RemoveParticipant(ctx context.Context, interviewID uuid.UUID, identity string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, identity)
	return nil
}

func (f *fakeMediaClient) StartRecording(ctx context.Context, interviewID uuid.UUID) (string, error) {
	f.startCalls++
	if f.startErr != nil {
		return "", f.startErr
	}
	return "EG_fake", nil
}

func (f *fakeMediaClient) StopRecording(ctx context.Context, egressID string) error {
	f.stopped = append(f.stopped, egressID)
	return nil
}

type fakeInterviewRepo struct {
	rooms      map[uuid.UUID]string
	recordings map[uuid.UUID]string
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{
		rooms:      make(map[uuid.UUID]string),
		recordings: make(map[uuid.UUID]string),
	}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, interview *entities.Interview) error {
	return nil
}

func (r *fakeInterviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error) {
	return nil, nil
}

func (r *fakeInterviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InterviewStatus) error {
	return nil
}

func (r *fakeInterviewRepo) MarkStarted(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeInterviewRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeInterviewRepo) SetMediaRoom(ctx context.Context, id uuid.UUID, roomName string) error {
	r.rooms[id] = roomName
	return nil
}

func (r *fakeInterviewRepo) SetRecordingURL(ctx context.Context, id uuid.UUID, recordingURL string) error {
	r.recordings[id] = recordingURL
	return nil
}

type fakeJobRepo struct {
	created []*entities.TranscriptionJob
}

func (r *fakeJobRepo) Create(ctx context.Context, job *entities.TranscriptionJob) error {
	r.created = append(r.created, job)
	return nil
}

func (r *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptionJob, error) {
	return nil, nil
}

func (r *fakeJobRepo) FindByExternalID(ctx context.Context, externalID string) (*entities.TranscriptionJob, error) {
	return nil, nil
}

func (r *fakeJobRepo) FindByStatus(ctx context.Context, status entities.TranscriptionJobStatus, limit int) ([]entities.TranscriptionJob, error) {
	return nil, nil
}

func (r *fakeJobRepo) ClaimPending(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeJobRepo) MarkSubmitted(ctx context.Context, id uuid.UUID, externalID string) error {
	return nil
}

func (r *fakeJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, text string) error {
	return nil
}

func (r *fakeJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return nil
}

type fakeLinker struct{}

func (fakeLinker) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

func newTestService(client *fakeMediaClient) (*Service, *fakeInterviewRepo, *fakeJobRepo) {
	interviews := newFakeInterviewRepo()
	jobs := &fakeJobRepo{}
	svc := NewService(client, interviews, jobs, fakeLinker{}, "wss://media.local", time.Hour, nil)
	return svc, interviews, jobs
}

func TestParticipants(t *testing.T) {
	client := &fakeMediaClient{
		participants: []*livekit.ParticipantInfo{
			{SID: "PA_1", Identity: "conn-1", Name: "Candidate"},
			{SID: "PA_2", Identity: "conn-2", Name: "Observer"},
		},
	}
	svc, _, _ := newTestService(client)

	got, err := svc.Participants(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("participants failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 participants got %d", len(got))
	}
	if got[0].Identity != "conn-1" {
		t.Fatalf("unexpected identity %s", got[0].Identity)
	}
}

func TestParticipantsWrapsMediaError(t *testing.T) {
	client := &fakeMediaClient{listErr: errors.New("room does not exist")}
	svc, _, _ := newTestService(client)

	_, err := svc.Participants(context.Background(), uuid.New())
	if !errors.Is(err, uerrors.ErrMediaRoom) {
		t.Fatalf("expected ErrMediaRoom got %v", err)
	}
}

func TestEjectParticipant(t *testing.T) {
	client := &fakeMediaClient{}
	svc, _, _ := newTestService(client)

	if err := svc.EjectParticipant(context.Background(), uuid.New(), "conn-1"); err != nil {
		t.Fatalf("eject failed: %v", err)
	}
	if len(client.removed) != 1 || client.removed[0] != "conn-1" {
		t.Fatalf("expected conn-1 removed, got %v", client.removed)
	}

	client.removeErr = errors.New("participant not found")
	if err := svc.EjectParticipant(context.Background(), uuid.New(), "conn-9"); !errors.Is(err, uerrors.ErrMediaRoom) {
		t.Fatalf("expected ErrMediaRoom got %v", err)
	}
}

func TestOpenRoomStartsRecordingOnce(t *testing.T) {
	client := &fakeMediaClient{}
	svc, interviews, _ := newTestService(client)
	interviewID := uuid.New()

	room, err := svc.OpenRoom(context.Background(), interviewID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if room.Name != livekit.RoomName(interviewID) {
		t.Fatalf("unexpected room name %s", room.Name)
	}
	if interviews.rooms[interviewID] != room.Name {
		t.Fatal("room name not persisted")
	}

	// reconnect reuses the room without a second egress
	if _, err := svc.OpenRoom(context.Background(), interviewID); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if client.startCalls != 1 {
		t.Fatalf("expected 1 recording start got %d", client.startCalls)
	}
}

func TestOpenRoomRecordingFailureDoesNotBlock(t *testing.T) {
	client := &fakeMediaClient{startErr: errors.New("egress unavailable")}
	svc, _, _ := newTestService(client)

	if _, err := svc.OpenRoom(context.Background(), uuid.New()); err != nil {
		t.Fatalf("open must tolerate recording failure, got %v", err)
	}
}

func TestCloseRoomEnqueuesAudit(t *testing.T) {
	client := &fakeMediaClient{}
	svc, interviews, jobs := newTestService(client)
	interviewID := uuid.New()

	if _, err := svc.OpenRoom(context.Background(), interviewID); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := svc.CloseRoom(context.Background(), interviewID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if len(client.stopped) != 1 || client.stopped[0] != "EG_fake" {
		t.Fatalf("expected egress stopped, got %v", client.stopped)
	}
	if len(client.closed) != 1 {
		t.Fatal("expected room closed")
	}
	if interviews.recordings[interviewID] == "" {
		t.Fatal("recording URL not persisted")
	}
	if len(jobs.created) != 1 {
		t.Fatalf("expected 1 transcription job got %d", len(jobs.created))
	}
	if jobs.created[0].InterviewID != interviewID {
		t.Fatal("job bound to wrong interview")
	}
}

func TestCloseRoomUnrecordedSkipsAudit(t *testing.T) {
	client := &fakeMediaClient{startErr: errors.New("egress unavailable")}
	svc, _, jobs := newTestService(client)
	interviewID := uuid.New()

	if _, err := svc.OpenRoom(context.Background(), interviewID); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := svc.CloseRoom(context.Background(), interviewID); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if len(jobs.created) != 0 {
		t.Fatal("unrecorded interview must not enqueue audit transcription")
	}
}

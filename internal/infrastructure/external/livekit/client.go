package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// Client provisions one media room per interview and issues join tokens
type Client interface {
	EnsureRoom(ctx context.Context, interviewID uuid.UUID) (*RoomInfo, error)
	CloseRoom(ctx context.Context, interviewID uuid.UUID) error
	JoinToken(interviewID uuid.UUID, identity, displayName, role string) (string, error)
	ListParticipants(ctx context.Context, interviewID uuid.UUID) ([]*ParticipantInfo, error)
	RemoveParticipant(ctx context.Context, interviewID uuid.UUID, identity string) error
	StartRecording(ctx context.Context, interviewID uuid.UUID) (string, error)
	StopRecording(ctx context.Context, egressID string) error
}

// RecordingConfig holds the object storage target for session recordings
type RecordingConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// RoomInfo holds room information
type RoomInfo struct {
	Name            string
	SID             string
	CreationTime    time.Time
	MaxParticipants int32
	NumParticipants int32
}

// ParticipantInfo holds participant information
type ParticipantInfo struct {
	SID      string
	Identity string
	Name     string
	JoinedAt time.Time
}

const (
	// one candidate plus a handful of observers
	roomMaxParticipants = 10
	roomEmptyTimeout    = 300 // seconds
	roomDepartTimeout   = 30  // seconds

	tokenValidity = 4 * time.Hour
)

// RoomName derives the media room name for an interview
func RoomName(interviewID uuid.UUID) string {
	return "interview-" + interviewID.String()
}

// realClient is the real LiveKit client implementation
type realClient struct {
	roomClient   *lksdk.RoomServiceClient
	egressClient *lksdk.EgressClient
	apiKey       string
	apiSecret    string
	recording    RecordingConfig
}

// NewClient creates a new LiveKit client. With useMock set, all operations
// succeed locally without a media server (development and tests).
func NewClient(url, apiKey, apiSecret string, recording RecordingConfig, useMock bool) Client {
	if useMock {
		return &mockClient{
			apiKey:    apiKey,
			apiSecret: apiSecret,
		}
	}

	return &realClient{
		roomClient:   lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		egressClient: lksdk.NewEgressClient(url, apiKey, apiSecret),
		apiKey:       apiKey,
		apiSecret:    apiSecret,
		recording:    recording,
	}
}

// EnsureRoom creates the interview's media room. LiveKit treats creation
// as idempotent per name, so resuming a session reuses the same room.
func (c *realClient) EnsureRoom(ctx context.Context, interviewID uuid.UUID) (*RoomInfo, error) {
	room, err := c.roomClient.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             RoomName(interviewID),
		MaxParticipants:  roomMaxParticipants,
		EmptyTimeout:     roomEmptyTimeout,
		DepartureTimeout: roomDepartTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &RoomInfo{
		Name:            room.Name,
		SID:             room.Sid,
		CreationTime:    time.Unix(room.CreationTime, 0),
		MaxParticipants: int32(room.MaxParticipants),
		NumParticipants: int32(room.NumParticipants),
	}, nil
}

// CloseRoom deletes the interview's media room
func (c *realClient) CloseRoom(ctx context.Context, interviewID uuid.UUID) error {
	_, err := c.roomClient.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: RoomName(interviewID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// RemoveParticipant removes a participant from the interview room
func (c *realClient) RemoveParticipant(ctx context.Context, interviewID uuid.UUID, identity string) error {
	_, err := c.roomClient.RemoveParticipant(ctx, &livekit.RoomParticipantIdentity{
		Room:     RoomName(interviewID),
		Identity: identity,
	})
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// JoinToken generates an access token for the interview room. Candidates
// publish audio; observers join subscribe-only.
func (c *realClient) JoinToken(interviewID uuid.UUID, identity, displayName, role string) (string, error) {
	return signJoinToken(c.apiKey, c.apiSecret, interviewID, identity, displayName, role)
}

// ListParticipants lists all participants in the interview room
func (c *realClient) ListParticipants(ctx context.Context, interviewID uuid.UUID) ([]*ParticipantInfo, error) {
	resp, err := c.roomClient.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: RoomName(interviewID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		participants = append(participants, &ParticipantInfo{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
			JoinedAt: time.Unix(p.JoinedAt, 0),
		})
	}

	return participants, nil
}

func signJoinToken(apiKey, apiSecret string, interviewID uuid.UUID, identity, displayName, role string) (string, error) {
	canPublish := role == "candidate"
	canSubscribe := true
	canPublishData := canPublish

	at := auth.NewAccessToken(apiKey, apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           RoomName(interviewID),
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(displayName).
		SetValidFor(tokenValidity)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

// mockClient is a mock implementation for development without a media server
type mockClient struct {
	apiKey    string
	apiSecret string
}

// EnsureRoom (mock) simulates room creation
func (m *mockClient) EnsureRoom(ctx context.Context, interviewID uuid.UUID) (*RoomInfo, error) {
	return &RoomInfo{
		Name:            RoomName(interviewID),
		SID:             "mock-sid-" + uuid.New().String(),
		CreationTime:    time.Now(),
		MaxParticipants: roomMaxParticipants,
		NumParticipants: 0,
	}, nil
}

// CloseRoom (mock) simulates room deletion
func (m *mockClient) CloseRoom(ctx context.Context, interviewID uuid.UUID) error {
	return nil
}

// JoinToken (mock) signs a real token so clients can still decode it
func (m *mockClient) JoinToken(interviewID uuid.UUID, identity, displayName, role string) (string, error) {
	return signJoinToken(m.apiKey, m.apiSecret, interviewID, identity, displayName, role)
}

// ListParticipants (mock) returns empty list
func (m *mockClient) ListParticipants(ctx context.Context, interviewID uuid.UUID) ([]*ParticipantInfo, error) {
	return []*ParticipantInfo{}, nil
}

// RemoveParticipant (mock) simulates participant removal
func (m *mockClient) RemoveParticipant(ctx context.Context, interviewID uuid.UUID, identity string) error {
	return nil
}

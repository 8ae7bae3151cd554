package livekit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	livekit "github.com/livekit/protocol/livekit"
)

// StartRecording starts an audio-only composite egress of the interview room
// into the configured bucket. The resulting object feeds the transcription
// pipeline once the interview completes.
func (c *realClient) StartRecording(ctx context.Context, interviewID uuid.UUID) (string, error) {
	req := &livekit.RoomCompositeEgressRequest{
		RoomName:  RoomName(interviewID),
		AudioOnly: true,
		FileOutputs: []*livekit.EncodedFileOutput{
			{
				FileType: livekit.EncodedFileType_OGG,
				Filepath: RecordingObjectName(interviewID),
				Output: &livekit.EncodedFileOutput_S3{
					S3: &livekit.S3Upload{
						AccessKey:      c.recording.AccessKey,
						Secret:         c.recording.SecretKey,
						Endpoint:       c.recording.Endpoint,
						Bucket:         c.recording.Bucket,
						ForcePathStyle: true, // MinIO
						Region:         "us-east-1",
					},
				},
			},
		},
	}

	info, err := c.egressClient.StartRoomCompositeEgress(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to start egress: %w", err)
	}

	return info.EgressId, nil
}

// StopRecording stops an ongoing egress
func (c *realClient) StopRecording(ctx context.Context, egressID string) error {
	_, err := c.egressClient.StopEgress(ctx, &livekit.StopEgressRequest{
		EgressId: egressID,
	})
	if err != nil {
		return fmt.Errorf("failed to stop egress: %w", err)
	}
	return nil
}

// RecordingObjectName is the bucket path of the interview's audio recording.
// One object per interview, so a resumed egress overwrites the partial file.
func RecordingObjectName(interviewID uuid.UUID) string {
	return fmt.Sprintf("recordings/%s.ogg", interviewID)
}

// StartRecording (mock) returns a fake egress ID
func (m *mockClient) StartRecording(ctx context.Context, interviewID uuid.UUID) (string, error) {
	return "EG_mock_" + uuid.New().String(), nil
}

// StopRecording (mock) simulates stopping an egress
func (m *mockClient) StopRecording(ctx context.Context, egressID string) error {
	return nil
}

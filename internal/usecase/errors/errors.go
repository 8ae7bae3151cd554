package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
)

// Interview errors
var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInvalidState      = errors.New("interview is not in a valid state for this operation")
	ErrPlanEmpty         = errors.New("interview template has no questions")
	ErrAlreadyCompleted  = errors.New("interview already completed")
	ErrTemplateNotFound  = errors.New("interview template not found")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionComplete = errors.New("session already complete")
	ErrNotCandidate    = errors.New("operation requires the candidate role")
)

// Access errors
var (
	ErrTicketInvalid = errors.New("join ticket is invalid or already used")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
)

// Collaborator errors
var (
	ErrCollaboratorUnavailable = errors.New("external collaborator unavailable")
	ErrTranscriptionFailed     = errors.New("transcription failed")
	ErrSynthesisFailed         = errors.New("speech synthesis failed")
)

// Media errors
var (
	ErrMediaRoom  = errors.New("media room error")
	ErrMediaToken = errors.New("failed to generate media room token")
)

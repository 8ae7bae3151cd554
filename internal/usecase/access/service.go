package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/internal/domain/repositories"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/pkg/jwt"
)

// Service handles interview access: ticket issuance for invited
// participants and the ticket-for-token exchange used by the live channel.
type Service struct {
	tickets    *TicketManager
	jwtManager *jwt.Manager
	interviews repositories.InterviewRepository
	logger     *zap.Logger
}

// NewService constructs the access service
func NewService(tickets *TicketManager, jwtManager *jwt.Manager, interviews repositories.InterviewRepository, logger *zap.Logger) *Service {
	return &Service{
		tickets:    tickets,
		jwtManager: jwtManager,
		interviews: interviews,
		logger:     logger,
	}
}

// IssueTicket creates a one-time join ticket for a joinable interview
func (s *Service) IssueTicket(ctx context.Context, interviewID uuid.UUID, role string) (string, error) {
	if role != jwt.RoleCandidate && role != jwt.RoleObserver {
		return "", fmt.Errorf("%w: unknown role %q", uerrors.ErrInvalidInput, role)
	}

	interview, err := s.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return "", fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return "", uerrors.ErrInterviewNotFound
	}
	if interview.IsTerminal() {
		return "", fmt.Errorf("%w: interview is %s", uerrors.ErrInvalidState, interview.Status)
	}

	ticket, err := s.tickets.Issue(interviewID, role)
	if err != nil {
		return "", fmt.Errorf("failed to issue ticket: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("join ticket issued",
			zap.String("interview_id", interviewID.String()),
			zap.String("role", role),
		)
	}
	return ticket, nil
}

// ExchangeTicket consumes a one-time ticket and returns a signed access
// token scoped to the interview and role.
func (s *Service) ExchangeTicket(ticket string) (string, error) {
	interviewID, role, ok := s.tickets.Redeem(ticket)
	if !ok {
		return "", uerrors.ErrTicketInvalid
	}

	token, err := s.jwtManager.GenerateAccessToken(interviewID, role)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// Authenticate validates an access token and returns its claims
func (s *Service) Authenticate(token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrTokenInvalid, err)
	}
	return claims, nil
}

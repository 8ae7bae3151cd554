package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role names carried in interview access tokens
const (
	RoleCandidate = "candidate"
	RoleObserver  = "observer"
)

// Claims holds access claims for one interview
type Claims struct {
	InterviewID uuid.UUID `json:"interview_id"`
	Role        string    `json:"role"`
	jwt.RegisteredClaims
}

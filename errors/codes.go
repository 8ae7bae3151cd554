package errors

// ErrorCode identifies an application error category
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005

	// Interview lifecycle
	ErrorCode_INTERVIEW_NOT_FOUND     ErrorCode = 2000
	ErrorCode_INTERVIEW_INVALID_STATE ErrorCode = 2001
	ErrorCode_PLAN_EMPTY              ErrorCode = 2002
	ErrorCode_SESSION_NOT_FOUND       ErrorCode = 2003
	ErrorCode_SESSION_COMPLETED       ErrorCode = 2004

	// Access
	ErrorCode_TICKET_INVALID ErrorCode = 3000
	ErrorCode_TOKEN_INVALID  ErrorCode = 3001

	// Collaborators
	ErrorCode_COLLABORATOR_UNAVAILABLE ErrorCode = 4000
	ErrorCode_TRANSCRIPTION_FAILED     ErrorCode = 4001
	ErrorCode_SYNTHESIS_FAILED         ErrorCode = 4002

	// Webhooks / payloads
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 5000
	ErrorCode_INVALID_SIGNATURE ErrorCode = 5001
	ErrorCode_PROCESSING_FAILED ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:        "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_INTERVIEW_NOT_FOUND:      "INTERVIEW_NOT_FOUND",
	ErrorCode_INTERVIEW_INVALID_STATE:  "INTERVIEW_INVALID_STATE",
	ErrorCode_PLAN_EMPTY:               "PLAN_EMPTY",
	ErrorCode_SESSION_NOT_FOUND:        "SESSION_NOT_FOUND",
	ErrorCode_SESSION_COMPLETED:        "SESSION_COMPLETED",
	ErrorCode_TICKET_INVALID:           "TICKET_INVALID",
	ErrorCode_TOKEN_INVALID:            "TOKEN_INVALID",
	ErrorCode_COLLABORATOR_UNAVAILABLE: "COLLABORATOR_UNAVAILABLE",
	ErrorCode_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_SYNTHESIS_FAILED:         "SYNTHESIS_FAILED",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_INVALID_SIGNATURE:        "INVALID_SIGNATURE",
	ErrorCode_PROCESSING_FAILED:        "PROCESSING_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

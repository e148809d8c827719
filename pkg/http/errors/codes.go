package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidInput     = "invalid_input"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"

	// Session errors
	ErrCodeSessionNotFound    = "session_not_found"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeAlreadyAnswered    = "already_answered"
	ErrCodeQuizNotFound       = "quiz_not_found"
	ErrCodeResultNotFound     = "result_not_found"
	ErrCodeCodeSpaceExhausted = "code_space_exhausted"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
)

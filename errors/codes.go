package errors

// ErrorCode is the machine-readable code sent in error bodies.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeTooLarge     ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"

	// ErrCodeUnknownBackend means a field or call named a backend with no
	// registered factory.
	ErrCodeUnknownBackend     ErrorCode = "UNKNOWN_BACKEND"
	ErrCodeStorage            ErrorCode = "STORAGE_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode reports whether clients may retry a request that failed
// with code. Storage failures and unavailable remotes are transient.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeStorage, ErrCodeServiceUnavailable, ErrCodeRateLimited:
		return true
	}
	return false
}

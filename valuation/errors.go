package valuation

import (
	"errors"
	"fmt"
)

// APIError is a non-success response from the valuation backend. Keeping the
// status typed (instead of string-matching error text) lets callers separate
// backend failures from transport failures and from legitimate empty results.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("valuation backend error %d: %s", e.StatusCode, truncateBody(e.Body))
}

// IsBackendStatus reports whether err is a non-success HTTP status from the
// backend, as opposed to a transport-level failure.
func IsBackendStatus(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// maxErrorBody bounds how much of a failed response is kept for messages.
const maxErrorBody = 512

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("backend: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Unwrap maps well-known status codes onto domain sentinels so callers can
// use errors.Is without knowing about HTTP.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized:
		return domain.ErrAuthExpired
	case e.Code == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case e.Code >= http.StatusInternalServerError:
		return domain.ErrBackendUnavailable
	default:
		return nil
	}
}

// IsUnauthorized returns true if the error indicates a rejected token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrAuthExpired) {
		return true
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited returns true if the backend asked the client to slow down.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapStatus builds a StatusError from a failed response. The body is read
// up to maxErrorBody bytes and trimmed.
func WrapStatus(method, path string, code int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{
		Method: method,
		Path:   path,
		Code:   code,
		Body:   strings.TrimSpace(string(body)),
	}
}

// parseRetryAfter reads a Retry-After header in either seconds or HTTP-date
// form. Returns zero when absent or unparseable.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

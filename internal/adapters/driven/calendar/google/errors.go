package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// wrapError maps Google API errors onto domain sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch {
	case gerr.Code == http.StatusUnauthorized:
		return errors.Join(domain.ErrAuthExpired, err)
	case gerr.Code == http.StatusTooManyRequests:
		return errors.Join(domain.ErrRateLimited, err)
	case gerr.Code == http.StatusForbidden && isRateLimitReason(gerr):
		return errors.Join(domain.ErrRateLimited, err)
	case gerr.Code >= http.StatusInternalServerError:
		return errors.Join(domain.ErrBackendUnavailable, err)
	default:
		return err
	}
}

// isRateLimitReason reports whether a 403 is a quota rejection.
func isRateLimitReason(gerr *googleapi.Error) bool {
	for _, e := range gerr.Errors {
		switch e.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}

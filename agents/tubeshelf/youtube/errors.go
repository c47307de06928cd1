package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNotFound indicates a lookup returned no items.
	ErrNotFound = errors.New("not found")
	// ErrAuth indicates the API rejected the credentials (expired or invalid token, bad key).
	ErrAuth = errors.New("authorization rejected by YouTube API")
	// ErrTransient covers every other request failure.
	ErrTransient = errors.New("YouTube API request failed")
	// ErrInvalidReference indicates input that is neither a channel ID, handle nor channel URL.
	ErrInvalidReference = errors.New("not a YouTube channel URL or ID")
)

// classify wraps err with the sentinel matching its kind. The original error
// stays reachable, so errors.As(err, **googleapi.Error) still works.
func classify(call string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", call, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case isQuotaError(apiErr):
			return fmt.Errorf("%s: %w: %w", call, ErrTransient, err)
		case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", call, ErrAuth, err)
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", call, ErrNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", call, ErrTransient, err)
}

func isQuotaError(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}

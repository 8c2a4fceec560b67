package gdrive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// Drive reports per-user quota errors as 403 with one of these reasons.
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// IsNotFound returns true if the error reports a missing file or folder.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// IsAuthError returns true if the token was rejected or lacks access.
func IsAuthError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return !IsRateLimited(err)
	default:
		return false
	}
}

// IsRateLimited returns true if Drive asked the client to slow down.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if rateLimitReasons[item.Reason] {
			return true
		}
	}
	return false
}

func isServerError(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code >= http.StatusInternalServerError
}

// retryAfter returns the delay requested by a rate limit response, or zero.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// WrapError converts a Drive API error to a domain error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteFetchFailed, op, err)
	}

	var cause error
	var netErr net.Error
	switch {
	case IsNotFound(err):
		cause = domain.ErrNotFound
	case IsAuthError(err):
		cause = domain.ErrAuthFailure
	case IsRateLimited(err), isServerError(err), errors.As(err, &netErr):
		cause = domain.ErrTransientNetwork
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteFetchFailed, op, err)
	}
	return fmt.Errorf("%w: %w: %s: %v", domain.ErrRemoteFetchFailed, cause, op, err)
}

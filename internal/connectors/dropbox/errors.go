package dropbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// Dropbox error summaries are "<tag>/..." strings; these tags classify them.
var (
	notFoundTags  = []string{"not_found", "not_file", "not_folder"}
	authTags      = []string{"invalid_access_token", "expired_access_token", "missing_scope", "invalid_account_type", "user_suspended"}
	transientTags = []string{"too_many_requests", "too_many_write_operations", "internal_error", "temporarily_unavailable"}
)

// IsNotFound returns true if the error reports a missing path.
func IsNotFound(err error) bool {
	return hasTag(err, notFoundTags)
}

// IsAuthError returns true if the token was rejected.
func IsAuthError(err error) bool {
	return hasTag(err, authTags)
}

// IsRateLimited returns true if Dropbox asked the client to slow down.
func IsRateLimited(err error) bool {
	return hasTag(err, transientTags[:2])
}

func hasTag(err error, tags []string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, tag := range tags {
		if strings.Contains(msg, tag) {
			return true
		}
	}
	return false
}

// WrapError converts a Dropbox SDK error to a domain error.
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
	case hasTag(err, transientTags), errors.As(err, &netErr):
		cause = domain.ErrTransientNetwork
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteFetchFailed, op, err)
	}
	return fmt.Errorf("%w: %w: %s: %v", domain.ErrRemoteFetchFailed, cause, op, err)
}

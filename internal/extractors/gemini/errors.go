package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// classifyError maps Gemini API errors to domain causes.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, domain.ErrServiceUnavailable) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", domain.ErrAuthFailure, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, st.Message())
	case codes.Unavailable, codes.ResourceExhausted, codes.Internal, codes.DeadlineExceeded, codes.Aborted:
		return fmt.Errorf("%w: %s", domain.ErrServiceUnavailable, st.Message())
	default:
		return err
	}
}

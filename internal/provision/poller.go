package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
)

// opError converts a terminal operation's provider error payload into a Go
// error. Callers wrap it in the step-specific typed error.
func opError(op *api.Operation) error {
	if op == nil || op.Error == nil {
		return nil
	}
	return errors.New(op.Error.String())
}

// OperationGetter fetches the current state of one long-running operation.
type OperationGetter func(ctx context.Context) (*api.Operation, error)

// WaitOperation polls get on a fixed interval until the operation reports
// done, the deadline passes, or the context is canceled. It returns the
// terminal operation without interpreting its Error payload; that is the
// caller's responsibility. A deadline of zero disables the timeout.
func WaitOperation(
	ctx context.Context,
	get OperationGetter,
	interval, deadline time.Duration,
) (*api.Operation, error) {
	op, err := get(ctx)
	if err != nil {
		return nil, err
	}
	if op.Done {
		return op, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var timeout <-chan time.Time
	if deadline > 0 {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled waiting for operation %s: %w", op.Name, ctx.Err())
		case <-timeout:
			return nil, apperrors.ErrTimeout("operation "+op.Name, nil)
		case <-ticker.C:
			op, err = get(ctx)
			if err != nil {
				return nil, err
			}
			if op.Done {
				return op, nil
			}
		}
	}
}

package util

import (
	"context"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/status"
)

// AcquireSemaphore acquires a weighted semaphore, converting context
// errors to gRPC status errors.
//
// Weighted.Acquire() does not check for context cancellation prior to
// acquiring. This means that if the semaphore is acquired in a tight
// loop, the loop will not be interrupted. This helper function
// rectifies that.
func AcquireSemaphore(ctx context.Context, semaphore *semaphore.Weighted, n int64) error {
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	if err := semaphore.Acquire(ctx, n); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

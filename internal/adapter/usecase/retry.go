package usecase

import (
	"context"

	"brandreach/internal/core/port"
)

// Status writes are optimistic: read the current status, validate the
// transition, then write guarded by the status read. A lost race makes
// fn report false; it is re-run once against fresh state before the
// conflict surfaces to the caller.
const casAttempts = 2

func withRetry(ctx context.Context, fn func(context.Context) (bool, error)) error {
	for i := 0; i < casAttempts; i++ {
		ok, err := fn(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return port.ErrConcurrentModification
}

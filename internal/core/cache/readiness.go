package cache

import (
	"context"
	"fmt"
	"time"

	"shipping-distance/internal/core/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WaitReady pings c with exponential backoff until it answers or maxRetries is exhausted.
// It is used at startup only; cache calls made while serving requests are never retried.
func WaitReady(ctx context.Context, c Cache, maxRetries uint64) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := c.Ping(ctx)
		if err != nil {
			logger.Get().Warn("Cache not ready",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)); err != nil {
		return fmt.Errorf("cache not ready after %d attempts: %w", attempt, err)
	}
	return nil
}

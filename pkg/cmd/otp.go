package cmd

import (
	"context"

	"github.com/formlane/formlane/pkg/auth"
)

// NewOTPStore creates a one-time-code store. With a Redis URL configured,
// codes survive restarts; without one, they live in process memory.
func NewOTPStore(ctx context.Context, redisURL string) (auth.OTPStore, error) {
	if redisURL == "" {
		return auth.NewMemoryOTPStore(), nil
	}

	return auth.NewRedisOTPStore(ctx, redisURL)
}

package utils

import (
	"context"
	"time"
)

// FindIndex returns the position of item in slice, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Remaining shortens budget to what is left before the context deadline.
func Remaining(ctx context.Context, budget time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return budget
	}
	if left := time.Until(deadline); left < budget {
		return max(left, 0)
	}
	return budget
}

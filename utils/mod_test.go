package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	t.Run("present and missing items", func(t *testing.T) {
		require.Equal(t, 1, FindIndex([]string{"a", "b", "b"}, "b"), "First match should be returned")
		require.Equal(t, -1, FindIndex([]int{1, 2}, 3))
	})
}

func TestRemaining(t *testing.T) {
	t.Run("no deadline", func(t *testing.T) {
		require.Equal(t, time.Second, Remaining(context.Background(), time.Second))
	})

	t.Run("deadline before the budget", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		require.LessOrEqual(t, Remaining(ctx, time.Minute), 50*time.Millisecond, "Budget should shrink to the deadline")
	})

	t.Run("deadline already passed", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		require.Equal(t, time.Duration(0), Remaining(ctx, time.Minute))
	})
}

package structdiff

import (
	"context"

	"github.com/codalotl/segdiff/internal/segment"
)

// Compare runs Align on its own goroutine and returns its Result, or ctx.Err() if ctx is done first. An abandoned alignment keeps running until it finishes; its Result
// is dropped.
func Compare(ctx context.Context, left, right []segment.Segment) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	done := make(chan Result, 1)
	go func() {
		done <- Align(left, right)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

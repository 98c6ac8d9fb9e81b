package dataflow

import (
	"context"
)

// StepFunc runs one iteration of a loop at timestamp ts. Returning done
// ends the loop early; every worker must reach the same decision for the
// same iteration, typically from an AllReduce.
type StepFunc func(ctx context.Context, ts Timestamp) (done bool, err error)

// Iterate is the bounded loop construct. It calls step with timestamps
// start, start.Next(), ... for at most max iterations and returns the
// timestamp after the last completed one.
func Iterate(ctx context.Context, start Timestamp, max uint64, step StepFunc) (Timestamp, error) {
	ts := start
	for i := uint64(0); i < max; i++ {
		if err := ctx.Err(); err != nil {
			return ts, err
		}
		done, err := step(ctx, ts)
		if err != nil {
			return ts, err
		}
		ts = ts.Next()
		if done {
			break
		}
	}
	return ts, nil
}

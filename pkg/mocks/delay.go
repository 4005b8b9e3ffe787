package mocks

import (
	"context"
	"time"
)

// Delay returns a Factory that resolves with response once d has elapsed.
// Without a response it resolves with Success(nil).
//
// The wait ends early only if ctx is done, in which case ctx.Err() is
// returned.
func Delay(d time.Duration, response ...Response) Factory {
	resp := Success(nil)
	if len(response) > 0 {
		resp = response[0]
	}
	return func(ctx context.Context) (*Response, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			r := resp.clone()
			return &r, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

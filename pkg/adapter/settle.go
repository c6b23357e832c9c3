package adapter

import (
	"context"
	"time"
)

var timeNow = time.Now

// settle waits out delay, then resolves resp when its status is valid and
// rejects it with a status error otherwise.
func settle(ctx context.Context, resp *Response, delay time.Duration) outcome {
	if err := wait(ctx, delay); err != nil {
		return outcome{err: err}
	}

	validate := DefaultValidateStatus
	if resp.Request != nil && resp.Request.ValidateStatus != nil {
		validate = resp.Request.ValidateStatus
	}
	if !validate(resp.Status) {
		return outcome{err: statusError(resp)}
	}
	return outcome{resp: resp}
}

// reject waits out delay, then rejects with err.
func reject(ctx context.Context, err error, delay time.Duration) outcome {
	if werr := wait(ctx, delay); werr != nil {
		return outcome{err: werr}
	}
	return outcome{err: err}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

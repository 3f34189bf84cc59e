package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(time.Millisecond), WithJitter(0)}
}

func TestDo_RetriesRetryableUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errFlaky)
		}
		return nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	var retries []int
	opts := append(fast(), WithMaxAttempts(2), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retries = append(retries, attempt)
	}))

	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Retryable(errFlaky)
	}, opts...)

	assert.Same(t, errFlaky, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, retries)
}

func TestDo_PlainErrorsNeedRetryIf(t *testing.T) {
	calls := 0
	op := func(context.Context) error {
		calls++
		return errFlaky
	}

	assert.ErrorIs(t, Do(context.Background(), op, fast()...), errFlaky)
	assert.Equal(t, 1, calls)

	calls = 0
	opts := append(fast(), WithRetryIf(func(err error) bool { return errors.Is(err, errFlaky) }))
	assert.ErrorIs(t, Do(context.Background(), op, opts...), errFlaky)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	opts := append(fast(), WithRetryIf(func(error) bool { return true }))
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errFlaky)
	}, opts...)

	assert.Same(t, errFlaky, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreConnect_UsesRetryIf(t *testing.T) {
	calls := 0
	err := StoreConnect(append(fast(), WithRetryIf(func(err error) bool { return errors.Is(err, errFlaky) }))...).
		Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 4 {
				return errFlaky
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestDelay_CappedWithoutJitter(t *testing.T) {
	r := New(WithInitialDelay(100*time.Millisecond), WithMaxDelay(300*time.Millisecond), WithJitter(0))

	assert.Equal(t, 100*time.Millisecond, r.delay(1))
	assert.Equal(t, 200*time.Millisecond, r.delay(2))
	assert.Equal(t, 300*time.Millisecond, r.delay(3))
}

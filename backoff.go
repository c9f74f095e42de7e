package chimpmock

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

type randomWrapper interface {
	Int63n(n int64) int64
}

type defaultRandom struct{}

func (r *defaultRandom) Int63n(n int64) int64 {
	return rand.Int63n(n)
}

type backoff interface {
	Reset()
	Next() time.Duration
	GetMaxAttempt() uint8
	GetCurrentAttempt() uint8
}

type exponentialBackoff struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	multiplier float64
	attempt    uint8
	maxAttempt uint8

	random  randomWrapper
	backoff jitterBackoff
}

var (
	defaultMinDelay     = 200 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
	defaultMultiplier   = 2.0
	defaultMaxAttempt   = uint8(4)
	defaultRandomStruct = &defaultRandom{}
)

type ExponentialBackoffOption optionFunc[*exponentialBackoff]

func WithMinDelay(d time.Duration) ExponentialBackoffOption {
	return func(eb *exponentialBackoff) error {
		if d <= 0 {
			return errInvalidTimeout
		}
		eb.minDelay = d
		return nil
	}
}

func WithMaxDelay(d time.Duration) ExponentialBackoffOption {
	return func(eb *exponentialBackoff) error {
		if d <= 0 {
			return errInvalidTimeout
		}
		eb.maxDelay = d
		return nil
	}
}

func WithMultiplier(m float64) ExponentialBackoffOption {
	return func(eb *exponentialBackoff) error {
		eb.multiplier = m
		return nil
	}
}

// WithMaxAttempt sets how many times an operation runs in total. One disables
// retries.
func WithMaxAttempt(a uint8) ExponentialBackoffOption {
	return func(eb *exponentialBackoff) error {
		eb.maxAttempt = a
		return nil
	}
}

func withRandomImp(r randomWrapper) ExponentialBackoffOption {
	return func(eb *exponentialBackoff) error {
		eb.random = r
		return nil
	}
}

// newExponentialBackoff ignores invalid options and keeps the defaults for them.
func newExponentialBackoff(opts ...ExponentialBackoffOption) *exponentialBackoff {
	eb := &exponentialBackoff{
		minDelay:   defaultMinDelay,
		maxDelay:   defaultMaxDelay,
		multiplier: defaultMultiplier,
		maxAttempt: defaultMaxAttempt,
		random:     defaultRandomStruct,
	}

	for _, opt := range opts {
		_ = opt(eb)
	}

	eb.backoff = fullJitterBuilder(eb.minDelay, eb.maxDelay, eb.multiplier, eb.random)
	eb.Reset()

	return eb
}

func (eb *exponentialBackoff) Reset() {
	eb.attempt = 0
}

func (eb *exponentialBackoff) Next() time.Duration {
	eb.attempt++
	return eb.backoff(eb.attempt)
}

func (eb *exponentialBackoff) GetMaxAttempt() uint8 {
	return eb.maxAttempt
}

func (eb *exponentialBackoff) GetCurrentAttempt() uint8 {
	return eb.attempt
}

type jitterBackoff func(attempt uint8) time.Duration

func fullJitterBuilder(minDelay time.Duration, capacity time.Duration, multiplier float64, random randomWrapper) jitterBackoff {
	return func(attempt uint8) time.Duration {
		ceiling := float64(capacity)
		att := float64(attempt)
		base := float64(minDelay)

		temp := math.Min(ceiling, base*math.Pow(att, multiplier))
		diff := int64(temp) - int64(base)
		if diff <= 0 {
			diff = 1
		}
		sleep := random.Int63n(diff) + int64(base)

		return time.Duration(sleep)
	}
}

type exponentialBackoffFactory struct {
	opts []ExponentialBackoffOption
}

func newExponentialBackoffFactory(opts ...ExponentialBackoffOption) *exponentialBackoffFactory {
	return &exponentialBackoffFactory{
		opts: opts,
	}
}

func (f *exponentialBackoffFactory) New() *exponentialBackoff {
	return newExponentialBackoff(f.opts...)
}

func (f *exponentialBackoffFactory) Reset(eb *exponentialBackoff) {
	eb.Reset()
}

type retryableFunc func() error

// permanentError marks an error that retry must return immediately.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

func permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// retry runs op until it succeeds, returns a permanent error, ctx is done, or
// the attempt budget of eb is spent.
func retry(ctx context.Context, op retryableFunc, eb backoff) error {
	maxAttempts := eb.GetMaxAttempt()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr := op()
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		delay := eb.Next()
		if eb.GetCurrentAttempt() >= maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

package infra

import (
	"errors"
	"sync"
	"time"
)

// Breaker guards calls to the payment gateway with the classic three-state
// circuit: closed (calls flow), open (fast-fail), half-open (single probe).
// Refund processing and the retry cron both share one instance so a gateway
// outage trips the circuit for everyone at once.

// BreakerState is the circuit position.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrBreakerOpen is returned without calling the gateway while the circuit
// is open.
var ErrBreakerOpen = errors.New("gateway circuit open")

type Breaker struct {
	mu sync.Mutex

	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time

	failLimit    int
	probeLimit   int
	openDuration time.Duration
}

// NewBreaker builds a closed circuit. failLimit consecutive failures open it;
// after openDuration one probe is let through, and probeLimit consecutive
// probe successes close it again.
func NewBreaker(failLimit, probeLimit int, openDuration time.Duration) *Breaker {
	if failLimit <= 0 {
		failLimit = 5
	}
	if probeLimit <= 0 {
		probeLimit = 2
	}
	if openDuration <= 0 {
		openDuration = time.Minute
	}
	return &Breaker{
		state:        BreakerClosed,
		failLimit:    failLimit,
		probeLimit:   probeLimit,
		openDuration: openDuration,
	}
}

// State reports the circuit position, moving open → half-open once the
// cool-off has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.openDuration {
		b.state = BreakerHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute runs fn unless the circuit is open, and feeds the result back into
// the state machine.
func (b *Breaker) Execute(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrBreakerOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

func (b *Breaker) recordFailure() {
	b.failures++
	b.openedAt = time.Now()

	switch b.state {
	case BreakerClosed:
		if b.failures >= b.failLimit {
			b.state = BreakerOpen
			b.successes = 0
		}
	case BreakerHalfOpen:
		// probe failed, reopen
		b.state = BreakerOpen
		b.failures = 0
	}
}

func (b *Breaker) recordSuccess() {
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.probeLimit {
			b.state = BreakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
}

package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/monitoring"
)

// ErrBackendUnavailable is returned without calling Claude while the breaker
// is open.
var ErrBackendUnavailable = eris.New("assistant: backend unavailable")

const (
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = 30 * time.Second
)

// breaker opens after threshold consecutive transport failures and rejects
// calls until cooldown has passed. One call is then let through as a trial
// while the rest keep failing fast: success closes the breaker, failure
// reopens it.
type breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	failures int
	open     bool
	inTrial  bool
	openedAt time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil
	}
	if b.inTrial || b.now().Sub(b.openedAt) < b.cooldown {
		return ErrBackendUnavailable
	}
	b.inTrial = true
	return nil
}

// record counts err against the breaker. Cancellations are the caller's doing
// and never trip it; a cancelled trial call frees the slot for the next call.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inTrial = false

	switch {
	case err == nil:
		if b.open {
			zap.L().Info("assistant: backend recovered")
			monitoring.AIBreakerOpen.Set(0)
		}
		b.failures = 0
		b.open = false
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return
	}

	b.failures++
	if b.open || b.failures >= b.threshold {
		if !b.open {
			zap.L().Warn("assistant: backend failing, pausing requests",
				zap.Int("failures", b.failures), zap.Duration("cooldown", b.cooldown))
		}
		b.open = true
		b.openedAt = b.now()
		monitoring.AIBreakerOpen.Set(1)
	}
}

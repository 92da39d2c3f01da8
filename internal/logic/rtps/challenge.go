package rtps

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

// challenge is the handle given to the host with a RenderChallenge event.
// The first of Complete or Dismiss wins.
type challenge struct {
	once      sync.Once
	done      chan struct{}
	completed bool
}

var _ events.ChallengeHandle = (*challenge)(nil)

func newChallenge() *challenge {
	return &challenge{done: make(chan struct{})}
}

func (c *challenge) Complete() { c.resolve(true) }

func (c *challenge) Dismiss() { c.resolve(false) }

func (c *challenge) resolve(completed bool) {
	c.once.Do(func() {
		c.completed = completed
		close(c.done)
	})
}

// awaitChallenge shows html to the host and blocks until the host resolves
// it or ctx ends. A nil error means the request may be replayed.
func (c *Controller) awaitChallenge(ctx context.Context, html, apiURL string, logger *zap.Logger) error {
	ch := newChallenge()
	c.emitter.Emit(events.RenderChallenge{
		HTML:      html,
		BaseURL:   transport.ChallengeBaseURL(apiURL),
		Challenge: ch,
	})
	logger.Info("waiting for security challenge")

	select {
	case <-ch.done:
	case <-ctx.Done():
		c.metrics.IncrementChallenge("cancelled")
		return ctx.Err()
	}
	if !ch.completed {
		c.metrics.IncrementChallenge("dismissed")
		return logic.ErrChallengeDismissed
	}
	c.metrics.IncrementChallenge("completed")
	return nil
}

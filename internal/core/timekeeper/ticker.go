package timekeeper

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// TickSource paces a run. Wait blocks until the next period boundary.
type TickSource interface {
	Wait(ctx context.Context) error
	Stop()
}

// Ticker is a TickSource backed by a clock ticker.
type Ticker struct {
	ticker *clock.Ticker
}

// NewTicker returns a Ticker firing every interval on clk.
// The first boundary is one interval after the call.
func NewTicker(clk clock.Clock, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{ticker: clk.Ticker(interval)}
}

// Wait blocks until the next boundary or until ctx is done.
func (ticker *Ticker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ticker.ticker.C:
		return nil
	}
}

// Stop releases the underlying ticker.
func (ticker *Ticker) Stop() {
	ticker.ticker.Stop()
}

package appdirectory

import (
	"context"
	"time"

	"github.com/agentstation/appdirectory/pkg/errors"
)

// AutoRefreshOn starts a background loop that reads the catalog every
// interval, so a source URL change is picked up without waiting for a caller.
// Reads against an up-to-date cache do not touch the network. Calling it
// again restarts the loop with the new interval.
func (d *Directory) AutoRefreshOn(interval time.Duration) error {
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "interval",
			Value:   interval,
			Message: "refresh interval must be positive",
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				d.AllApps(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	// the previous loop is stopped outside refreshMu
	d.refreshMu.Lock()
	oldTicker, oldCancel, oldDone := d.refreshTicker, d.refreshCancel, d.refreshDone
	d.refreshTicker = ticker
	d.refreshCancel = cancel
	d.refreshDone = done
	d.refreshMu.Unlock()

	stopLoop(oldTicker, oldCancel, oldDone)

	d.options.logger.Debug().Dur("interval", interval).Msg("App directory auto refresh started")
	return nil
}

// AutoRefreshOff stops the background refresh loop and waits for it to exit.
// It is safe to call when no loop is running.
func (d *Directory) AutoRefreshOff() {
	d.refreshMu.Lock()
	ticker, cancel, done := d.refreshTicker, d.refreshCancel, d.refreshDone
	d.refreshTicker, d.refreshCancel, d.refreshDone = nil, nil, nil
	d.refreshMu.Unlock()

	stopLoop(ticker, cancel, done)
}

// stopLoop stops a refresh loop and waits for it to exit. A nil ticker means
// no loop.
func stopLoop(ticker *time.Ticker, cancel context.CancelFunc, done <-chan struct{}) {
	if ticker == nil {
		return
	}
	ticker.Stop()
	cancel()
	<-done
}

package app

import (
	"context"
	"time"

	"github.com/five82/subdeck/internal/crud"
	"github.com/five82/subdeck/internal/logging"
	"github.com/five82/subdeck/internal/subscriber"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// staleMarker is the part of the crud service the poller drives.
type staleMarker interface {
	Refresh()
}

// snapshotter exposes the collection state used to compute backoff.
type snapshotter interface {
	Snapshot() subscriber.Snapshot
}

// StartPoller launches a background goroutine that marks the collection
// stale at a fixed cadence so the controller refetches it. After failed
// fetches the cadence backs off exponentially. It returns immediately.
func StartPoller(ctx context.Context, svc *crud.Service, interval time.Duration) {
	startPoller(ctx, svc, svc.Store(), interval)
}

func startPoller(ctx context.Context, marker staleMarker, snaps snapshotter, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log := logging.FromContext(ctx)
	go func() {
		for {
			failures := snaps.Snapshot().ConsecutiveFailures
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				log.Debug().Int("failures", failures).Dur("wait", wait).Msg("backing off")
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			marker.Refresh()
		}
	}()
}

// calculateBackoff doubles baseInterval for every consecutive failure, capped
// at maxBackoff. A base above the cap is never shortened.
func calculateBackoff(failures int, baseInterval time.Duration) time.Duration {
	if failures <= 0 || baseInterval >= maxBackoff {
		return baseInterval
	}
	backoff := baseInterval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

package stream

import (
	"context"
	"errors"
	"time"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/infrastructure/config"
)

// ActivitySource fetches a house's recent activity feed. Implemented
// by the cloud client.
type ActivitySource interface {
	GetHouseActivities(ctx context.Context, houseID string, limit int) ([]activity.Activity, error)
}

// ActivityLog deduplicates feed entries across poll cycles.
// Implemented by the activitylog store.
type ActivityLog interface {
	MarkSeen(ctx context.Context, act activity.Activity) (bool, error)
}

// Poller periodically drains each house's activity feed into the
// coordinator.
type Poller struct {
	source      ActivitySource
	log         ActivityLog
	coordinator *Coordinator
	houseIDs    []string
	interval    time.Duration
	limit       int
	logger      Logger
}

// NewPoller builds a poller over the given houses.
func NewPoller(source ActivitySource, log ActivityLog, coordinator *Coordinator,
	houseIDs []string, cfg config.PollConfig, logger Logger) *Poller {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Poller{
		source:      source,
		log:         log,
		coordinator: coordinator,
		houseIDs:    houseIDs,
		interval:    cfg.GetInterval(),
		limit:       cfg.ActivityLimit,
		logger:      logger,
	}
}

// Run polls until the context is cancelled. One cycle runs immediately
// on start. Fetch failures are logged and retried next cycle; the
// strict-newer rule makes redelivery across cycles harmless.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce fetches and applies one cycle across all houses.
func (p *Poller) pollOnce(ctx context.Context) {
	for _, houseID := range p.houseIDs {
		if ctx.Err() != nil {
			return
		}
		if err := p.pollHouse(ctx, houseID); err != nil {
			p.logger.Warn("poll cycle failed", "house_id", houseID, "error", err)
		}
	}
}

func (p *Poller) pollHouse(ctx context.Context, houseID string) error {
	activities, err := p.source.GetHouseActivities(ctx, houseID, p.limit)
	if err != nil {
		return err
	}

	// The feed returns newest first; apply oldest first so subscribers
	// see changes in event order. Out-of-order application would still
	// converge, this is purely cosmetic for the event stream.
	for i := len(activities) - 1; i >= 0; i-- {
		act := activities[i]

		isNew, err := p.log.MarkSeen(ctx, act)
		if err != nil {
			return err
		}
		if !isNew {
			continue
		}

		if _, err := p.coordinator.HandleActivity(act); err != nil {
			// Feed entries for devices we do not track are expected on
			// shared houses.
			if errors.Is(err, ErrUnknownDevice) {
				continue
			}
			p.logger.Warn("activity rejected",
				"activity_id", act.ID, "device_id", act.DeviceID, "error", err)
		}
	}
	return nil
}

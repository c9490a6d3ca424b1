package rescorer

import (
	"context"
	"time"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/hermes"
)

func (r *Rescorer) statsLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.StatsInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publishStats(ctx)
		}
	}
}

func (r *Rescorer) publishStats(ctx context.Context) {
	if r.hermes == nil {
		return
	}
	stats, err := r.store.GetStats(ctx)
	if err != nil {
		r.logger.Error("failed to get stats for publish", "error", err)
		return
	}
	if err := r.hermes.Publish(hermes.SubjectStats, hermes.StatsEvent{
		TotalProducts: stats.TotalProducts,
		Pending:       stats.Pending,
		Proceed:       stats.Proceed,
		GatherData:    stats.GatherData,
		Reject:        stats.Reject,
		AvgScore:      stats.AvgScore,
		Timestamp:     r.now().UTC(),
	}); err != nil {
		r.logger.Warn("failed to publish stats", "error", err)
	}
}

package keepalive

import (
	"context"
	"fmt"
	"time"

	"fraud_report_backend/internal/metrics"
	"fraud_report_backend/pkg/utils"
)

// Pinger issues the trivial read that keeps the backend from pausing.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Worker pings the backend at most once per MinGap, checking every CheckInterval.
type Worker struct {
	pinger        Pinger
	store         Store
	checkInterval time.Duration
	minGap        time.Duration
	now           func() time.Time
}

// NewWorker creates a Worker. Non-positive durations fall back to 1h checks and a 24h gap.
func NewWorker(pinger Pinger, store Store, checkInterval, minGap time.Duration) *Worker {
	if checkInterval <= 0 {
		checkInterval = time.Hour
	}
	if minGap <= 0 {
		minGap = 24 * time.Hour
	}
	return &Worker{
		pinger:        pinger,
		store:         store,
		checkInterval: checkInterval,
		minGap:        minGap,
		now:           time.Now,
	}
}

// RunOnce pings if no successful ping was recorded in the last MinGap.
// It reports whether a ping was issued; a failed ping is not recorded.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	now := w.now()

	last, ok, err := w.store.LastPing()
	if err != nil {
		// An unreadable state file should not stop the pings.
		utils.LogWarn("Keep-alive state unreadable, pinging anyway", map[string]interface{}{"error": err.Error()})
		ok = false
	}
	if ok && now.Sub(last) < w.minGap {
		metrics.KeepAlivePings.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return false, nil
	}

	if err := w.pinger.Ping(ctx); err != nil {
		metrics.KeepAlivePings.WithLabelValues(metrics.OutcomeError).Inc()
		return true, fmt.Errorf("keep-alive ping: %w", err)
	}
	metrics.KeepAlivePings.WithLabelValues(metrics.OutcomeOK).Inc()

	if err := w.store.SetLastPing(now); err != nil {
		return true, fmt.Errorf("recording keep-alive ping: %w", err)
	}
	utils.LogInfo("Backend pinged to keep project active")
	return true, nil
}

// Start runs once immediately and then on every tick until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	utils.LogInfo("Keep-alive worker started", map[string]interface{}{
		"check_interval": w.checkInterval.String(),
		"min_gap":        w.minGap.String(),
	})

	w.safeRun(ctx)
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Keep-alive worker stopped")
			return
		case <-ticker.C:
			w.safeRun(ctx)
		}
	}
}

func (w *Worker) safeRun(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogWarn("Keep-alive run panicked, will retry on next tick", map[string]interface{}{"panic": fmt.Sprint(r)})
		}
	}()

	if _, err := w.RunOnce(ctx); err != nil {
		utils.LogError(err, "Error pinging backend")
	}
}

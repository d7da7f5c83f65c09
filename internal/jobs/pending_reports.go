package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"luct/reporting/internal/metrics"
)

type PendingReportCounter interface {
	CountPendingReports(ctx context.Context) (int64, error)
}

// StartPendingReportsJob keeps the pending reports gauge current until ctx is
// cancelled. The first refresh runs immediately.
func StartPendingReportsJob(ctx context.Context, interval time.Duration, counter PendingReportCounter, logger *zap.Logger) {
	if counter == nil {
		logger.Warn("pending reports job disabled: no store configured")
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := interval / 2
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	logger = logger.Named("jobs")

	go func() {
		refreshPendingReports(ctx, counter, timeout, logger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refreshPendingReports(ctx, counter, timeout, logger)
			}
		}
	}()
}

func refreshPendingReports(ctx context.Context, counter PendingReportCounter, timeout time.Duration, logger *zap.Logger) (int64, error) {
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	count, err := counter.CountPendingReports(tickCtx)
	if err != nil {
		logger.Error("pending reports refresh failed", zap.Error(err))
		return 0, err
	}
	metrics.SetPendingReports(count)
	return count, nil
}

package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"teamhub.backend/pkg/logger"
)

// ActivityReplayer moves parked activity events back into the store.
type ActivityReplayer interface {
	Replay(ctx context.Context, limit int) (int, error)
}

// ActivityRetryJob periodically replays activity events whose append failed.
type ActivityRetryJob struct {
	replayer  ActivityReplayer
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

func NewActivityRetryJob(replayer ActivityReplayer, interval time.Duration, batchSize int) *ActivityRetryJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ActivityRetryJob{
		replayer:  replayer,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

func (j *ActivityRetryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting activity retry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Activity retry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Activity retry job stopped")
			return
		case <-ticker.C:
			j.replayPending(ctx)
		}
	}
}

func (j *ActivityRetryJob) Stop() {
	close(j.stop)
}

func (j *ActivityRetryJob) replayPending(ctx context.Context) {
	n, err := j.replayer.Replay(ctx, j.batchSize)
	if err != nil {
		logger.Warn(ctx, "Activity replay interrupted", zap.Int("replayed", n), zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Replayed activity events", zap.Int("count", n))
	}
}

package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"teamhub.backend/internal/domain/entities"
	"teamhub.backend/internal/domain/repositories"
	"teamhub.backend/pkg/logger"
	"teamhub.backend/pkg/metrics"
	"teamhub.backend/pkg/utils"
)

const (
	resultRecorded = "recorded"
	resultQueued   = "queued"
	resultDropped  = "dropped"
	resultReplayed = "replayed"
)

// Dispatcher records activity events after the state change they describe
// has committed. A failed append never surfaces to the caller: the event is
// logged and parked on the retry queue.
type Dispatcher struct {
	repo  repositories.ActivityRepository
	queue RetryQueue
}

// NewDispatcher creates a dispatcher. queue may be nil, in which case failed
// events are only logged.
func NewDispatcher(repo repositories.ActivityRepository, queue RetryQueue) *Dispatcher {
	return &Dispatcher{repo: repo, queue: queue}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events ...*entities.ActivityEvent) {
	// the request may be cancelled once the response is written
	ctx = context.WithoutCancel(ctx)

	for _, event := range events {
		if event == nil {
			continue
		}
		// assigned up front so a replay of a half-written append dedupes
		if event.ID == uuid.Nil {
			event.ID = utils.GenerateUUIDv7()
		}

		err := d.repo.Append(ctx, event)
		if err == nil {
			metrics.ActivityEvents.WithLabelValues(resultRecorded).Inc()
			continue
		}

		logger.Warn(ctx, "Activity append failed",
			zap.String("event_id", event.ID.String()),
			zap.String("team_id", event.TeamID.String()),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		d.park(ctx, event)
	}
}

func (d *Dispatcher) park(ctx context.Context, event *entities.ActivityEvent) {
	if d.queue == nil {
		metrics.ActivityEvents.WithLabelValues(resultDropped).Inc()
		logger.Error(ctx, "Activity event dropped, no retry queue", zap.String("event_id", event.ID.String()))
		return
	}
	if err := d.queue.Push(ctx, event); err != nil {
		metrics.ActivityEvents.WithLabelValues(resultDropped).Inc()
		logger.Error(ctx, "Activity event dropped", zap.String("event_id", event.ID.String()), zap.Error(err))
		return
	}
	metrics.ActivityEvents.WithLabelValues(resultQueued).Inc()
}

// Replay moves up to limit parked events into the activity store and returns
// how many landed. It stops at the first failed append, re-parking that event.
func (d *Dispatcher) Replay(ctx context.Context, limit int) (int, error) {
	if d.queue == nil {
		return 0, nil
	}

	replayed := 0
	for replayed < limit {
		event, err := d.queue.Pop(ctx)
		if err != nil {
			return replayed, err
		}
		if event == nil {
			return replayed, nil
		}
		if err := d.repo.Append(ctx, event); err != nil {
			if pushErr := d.queue.Push(ctx, event); pushErr != nil {
				metrics.ActivityEvents.WithLabelValues(resultDropped).Inc()
				logger.Error(ctx, "Activity event dropped on replay", zap.String("event_id", event.ID.String()), zap.Error(pushErr))
			}
			return replayed, err
		}
		metrics.ActivityEvents.WithLabelValues(resultReplayed).Inc()
		replayed++
	}
	return replayed, nil
}

package scheduler

import (
	"context"
	"fmt"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/platform/logger"
)

// SubscribeWriteBackRetries routes failed CRM write-backs to the retry queue.
func SubscribeWriteBackRetries(bus events.Bus, scheduler WriteBackScheduler, log *logger.Logger) {
	bus.Subscribe(events.JobWriteBackFailed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		failed, ok := event.(events.JobWriteBackFailed)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}

		err := scheduler.ScheduleWriteBack(ctx, JobWriteBackPayload{
			JobID:          failed.JobID,
			ContractorID:   failed.ContractorID,
			ContractorName: failed.ContractorName,
			Status:         failed.Status,
			AccessMethod:   failed.AccessMethod,
			AccessNotes:    failed.AccessNotes,
		})
		if err != nil {
			log.WithJobID(failed.JobID).Error("failed to enqueue job write-back retry", "error", err)
			return err
		}
		log.WithJobID(failed.JobID).Info("job write-back retry enqueued")
		return nil
	}))
}

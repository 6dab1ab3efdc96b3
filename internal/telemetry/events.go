package telemetry

import (
	"context"

	"github.com/ksquared-16/alloy/internal/events"
)

// SubscribeDomainEvents counts every dispatch, assignment, write-back failure
// and lead submission published on the bus.
func SubscribeDomainEvents(bus events.Bus) {
	count := events.HandlerFunc(func(_ context.Context, event events.Event) error {
		DomainEvents.WithLabelValues(event.EventName()).Inc()
		return nil
	})
	for _, name := range []string{
		events.JobDispatched{}.EventName(),
		events.JobAssigned{}.EventName(),
		events.JobWriteBackFailed{}.EventName(),
		events.LeadSubmitted{}.EventName(),
	} {
		bus.Subscribe(name, count)
	}
}

package service

import (
	"context"
	"errors"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/internal/jobs/domain"
	"github.com/ksquared-16/alloy/internal/jobs/transport"
	"github.com/ksquared-16/alloy/internal/pricing"
	"github.com/ksquared-16/alloy/internal/telemetry"
)

// DispatchOutcome tells the caller what happened to a booking.
type DispatchOutcome string

const (
	DispatchBroadcast       DispatchOutcome = "dispatched"
	DispatchMissingJobID    DispatchOutcome = "missing_job_id"
	DispatchNoContractors   DispatchOutcome = "no_contractors"
	DispatchAlreadyAssigned DispatchOutcome = "already_assigned"
)

// DispatchResult reports the job as stored plus who was messaged.
type DispatchResult struct {
	Outcome      DispatchOutcome
	Job          domain.Job
	Notified     []string
	SendFailures []string
}

// BuildJob turns a normalized booking into a pending job.
func BuildJob(b transport.Booking, dispatchedAt string) domain.Job {
	return domain.Job{
		ID:                  b.JobID,
		CustomerName:        b.CustomerName,
		CustomerContactID:   b.ContactID,
		ServiceType:         domain.ServiceTypeFromBreakdown(b.PriceBreakdown),
		EstimatedPrice:      ResolveEstimatedPrice(b.EstimatedPrice, b.PriceBreakdown),
		PriceBreakdown:      b.PriceBreakdown,
		StartTime:           b.StartTime,
		EndTime:             b.EndTime,
		AccessMethod:        b.AccessMethod,
		AccessNotes:         b.AccessNotes,
		NotifiedContractors: []string{},
		DispatchedAt:        dispatchedAt,
	}
}

// ResolveEstimatedPrice prefers the direct price field and falls back to the
// breakdown's Total line. Zero means the price is still pending.
func ResolveEstimatedPrice(raw, breakdown string) float64 {
	if price, ok := pricing.ParseAmount(raw); ok && price > 0 {
		return price
	}
	if price, ok := pricing.TotalFromBreakdown(breakdown); ok && price > 0 {
		return price
	}
	return 0
}

// Dispatch stores the booking as a job and broadcasts it to every reachable
// eligible contractor. A failed send never stops the fan-out.
//
// A repeated booking for a stored id refreshes the pending job and only
// messages contractors who have not been notified yet. A repeated booking for
// an assigned job changes nothing and is not broadcast.
func (s *Service) Dispatch(ctx context.Context, booking transport.Booking) (DispatchResult, error) {
	log := s.log.WithContext(ctx)
	job := BuildJob(booking, domain.FormatTimestamp(s.now()))
	result := DispatchResult{Job: job, Notified: []string{}}

	if job.ID == "" {
		log.Warn("booking has no appointment id; job not stored", "customer", job.CustomerName)
		result.Outcome = DispatchMissingJobID
		telemetry.DispatchOutcomes.WithLabelValues(string(result.Outcome)).Inc()
		return result, nil
	}
	log = log.WithJobID(job.ID)

	err := s.store.Insert(ctx, job)
	if errors.Is(err, domain.ErrJobExists) {
		booked := job
		job, err = s.store.Update(ctx, booked.ID, func(j *domain.Job) error {
			return j.Rebook(booked)
		})
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			log.Info("repeated booking for assigned job ignored", "assigned_to", job.AssignedContractorID)
			result.Job = job
			result.Outcome = DispatchAlreadyAssigned
			s.finishDispatch(ctx, &result)
			return result, nil
		}
		if err == nil {
			log.Info("repeated booking refreshed pending job", "already_notified", len(job.NotifiedContractors))
		}
	}
	if err != nil {
		log.StoreError("put", err)
		return result, err
	}
	result.Job = job
	log.Info("job stored", "service_type", job.ServiceType, "estimated_price", job.EstimatedPrice)

	contractors := s.eligibleOrEmpty(ctx)
	if len(contractors) == 0 {
		log.Warn("no contractors available for dispatch")
		result.Outcome = DispatchNoContractors
		s.finishDispatch(ctx, &result)
		return result, nil
	}

	message := broadcastMessage(job)
	sendCtx := context.WithoutCancel(ctx)
	for _, c := range contractors {
		if !c.Reachable() {
			log.Info("skipping contractor without valid id/phone", "contractor_id", c.ID)
			continue
		}
		if job.WasNotified(c.ID) {
			continue
		}

		updated, err := s.store.Update(sendCtx, job.ID, func(j *domain.Job) error {
			j.MarkNotified(c.ID)
			return nil
		})
		if err != nil {
			log.StoreError("mark_notified", err)
		} else {
			result.Job = updated
		}
		result.Notified = append(result.Notified, c.ID)

		if err := s.messenger.SendSMS(sendCtx, c.ID, message); err != nil {
			log.SideEffectFailed("broadcast_sms", job.ID, c.ID, err)
			telemetry.SMSSent.WithLabelValues("broadcast", "error").Inc()
			result.SendFailures = append(result.SendFailures, c.ID)
			continue
		}
		telemetry.SMSSent.WithLabelValues("broadcast", "ok").Inc()
	}

	result.Outcome = DispatchBroadcast
	s.finishDispatch(ctx, &result)
	log.Info("job dispatched", "notified", len(result.Notified), "send_failures", len(result.SendFailures))
	return result, nil
}

func (s *Service) finishDispatch(ctx context.Context, result *DispatchResult) {
	telemetry.DispatchOutcomes.WithLabelValues(string(result.Outcome)).Inc()
	s.publish(ctx, events.JobDispatched{
		BaseEvent:     events.NewBaseEvent(),
		JobID:         result.Job.ID,
		Outcome:       string(result.Outcome),
		NotifiedCount: len(result.Notified),
	})
}

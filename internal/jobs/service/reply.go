package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/internal/jobs/domain"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
	"github.com/ksquared-16/alloy/internal/jobs/transport"
	"github.com/ksquared-16/alloy/internal/telemetry"
)

// ReplyOutcome tells the caller how a contractor reply was resolved.
type ReplyOutcome string

const (
	ReplyAssigned                 ReplyOutcome = "assigned"
	ReplyAlreadyAssigned          ReplyOutcome = "already_assigned"
	ReplyInvalidFormat            ReplyOutcome = "invalid_format"
	ReplyMissingContact           ReplyOutcome = "missing_contact_id"
	ReplyJobNotFound              ReplyOutcome = "job_not_found"
	ReplyJobNotFoundForContractor ReplyOutcome = "job_not_found_for_contractor"
)

// ReplyResult describes the resolution. For already_assigned, Assigned* name
// the contractor who holds the job.
type ReplyResult struct {
	Outcome                ReplyOutcome
	JobID                  string
	ContractorID           string
	ContractorName         string
	AssignedContractorID   string
	AssignedContractorName string
	Message                string
}

// ResolveReply parses a contractor reply, resolves the job and attempts the
// single-winner assignment. Only the first successful claim triggers the
// notifications and the CRM write-back.
func (s *Service) ResolveReply(ctx context.Context, reply transport.Reply) (ReplyResult, error) {
	log := s.log.WithContext(ctx)
	contactID := strings.TrimSpace(reply.ContactID)
	result := ReplyResult{ContractorID: contactID, Message: reply.Message}

	jobID, kind := domain.ParseReply(reply.Message, reply.JobID)
	if kind == domain.ReplyUnrecognized {
		log.Info("contractor reply not recognized", "contractor_id", contactID, "message", reply.Message)
		return s.finishReply(result, ReplyInvalidFormat), nil
	}
	if contactID == "" {
		log.Warn("contractor reply without contact id", "message", reply.Message)
		return s.finishReply(result, ReplyMissingContact), nil
	}

	if kind == domain.ReplyBareAffirmative {
		jobs, err := s.store.All(ctx)
		if err != nil {
			log.StoreError("all", err)
			return result, err
		}
		latest, ok := domain.LatestNotifiedJob(jobs, contactID)
		if !ok {
			log.Info("no job notified to contractor", "contractor_id", contactID, "known_jobs", len(jobs))
			return s.finishReply(result, ReplyJobNotFoundForContractor), nil
		}
		jobID = latest.ID
	}
	result.JobID = jobID

	if _, err := s.store.Get(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			log.Info("reply references unknown job", "job_id", jobID, "contractor_id", contactID)
			return s.finishReply(result, ReplyJobNotFound), nil
		}
		log.StoreError("get", err)
		return result, err
	}

	contractors := s.eligibleOrEmpty(ctx)
	name := domain.UnknownContractorName
	if c, ok := domain.FindContractor(contractors, contactID); ok && strings.TrimSpace(c.Name) != "" {
		name = c.Name
	}
	result.ContractorName = name

	job, err := s.store.Update(ctx, jobID, func(j *domain.Job) error {
		return j.Assign(contactID, name)
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyAssigned):
		result.AssignedContractorID = job.AssignedContractorID
		result.AssignedContractorName = job.AssignedContractorName
		log.Info("job already assigned", "job_id", jobID, "contractor_id", contactID, "assigned_to", job.AssignedContractorID)
		return s.finishReply(result, ReplyAlreadyAssigned), nil
	case errors.Is(err, domain.ErrJobNotFound):
		return s.finishReply(result, ReplyJobNotFound), nil
	case err != nil:
		log.StoreError("assign", err)
		return result, err
	}

	result.AssignedContractorID = job.AssignedContractorID
	result.AssignedContractorName = job.AssignedContractorName
	log.WithJobID(jobID).Info("job assigned", "contractor_id", contactID, "contractor_name", name)

	s.announceAssignment(context.WithoutCancel(ctx), job, contractors)
	return s.finishReply(result, ReplyAssigned), nil
}

func (s *Service) finishReply(result ReplyResult, outcome ReplyOutcome) ReplyResult {
	result.Outcome = outcome
	telemetry.ReplyOutcomes.WithLabelValues(string(outcome)).Inc()
	return result
}

// announceAssignment runs the post-claim side effects in order. Each one is
// best-effort and never affects the others or the assignment.
func (s *Service) announceAssignment(ctx context.Context, job domain.Job, contractors []domain.Contractor) {
	winner := job.AssignedContractorID

	s.send(ctx, "confirmation", job.ID, winner, confirmationMessage(job))

	claimed := claimedMessage(job)
	for _, c := range contractors {
		if !c.Reachable() || c.ID == winner {
			continue
		}
		s.send(ctx, "claimed", job.ID, c.ID, claimed)
	}

	if job.CustomerContactID != "" {
		s.send(ctx, "customer", job.ID, job.CustomerContactID, customerAssignedMessage(job))
	}

	s.writeBack(ctx, job)

	s.publish(ctx, events.JobAssigned{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          job.ID,
		ContractorID:   winner,
		ContractorName: job.AssignedContractorName,
	})
}

func (s *Service) send(ctx context.Context, kind, jobID, recipient, message string) {
	if err := s.messenger.SendSMS(ctx, recipient, message); err != nil {
		s.log.WithContext(ctx).SideEffectFailed(kind+"_sms", jobID, recipient, err)
		telemetry.SMSSent.WithLabelValues(kind, "error").Inc()
		return
	}
	telemetry.SMSSent.WithLabelValues(kind, "ok").Inc()
}

// AssignmentFor builds the CRM write-back payload for an assigned job.
func AssignmentFor(job domain.Job) ports.JobAssignment {
	return ports.JobAssignment{
		ExternalJobID:  job.ID,
		ContractorID:   job.AssignedContractorID,
		ContractorName: job.AssignedContractorName,
		Status:         domain.StatusContractorAssigned,
		AccessMethod:   job.AccessMethod,
		AccessNotes:    job.AccessNotes,
	}
}

func (s *Service) writeBack(ctx context.Context, job domain.Job) {
	assignment := AssignmentFor(job)
	err := s.writer.WriteAssignment(ctx, assignment)
	if err == nil {
		telemetry.WriteBacks.WithLabelValues("ok").Inc()
		return
	}

	s.log.WithContext(ctx).SideEffectFailed("job_writeback", job.ID, assignment.ContractorID, err)
	telemetry.WriteBacks.WithLabelValues("error").Inc()
	s.publish(ctx, events.JobWriteBackFailed{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          assignment.ExternalJobID,
		ContractorID:   assignment.ContractorID,
		ContractorName: assignment.ContractorName,
		Status:         assignment.Status,
		AccessMethod:   assignment.AccessMethod,
		AccessNotes:    assignment.AccessNotes,
		Error:          err.Error(),
	})
}

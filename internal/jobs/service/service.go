package service

import (
	"context"
	"time"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/internal/jobs/domain"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
	"github.com/ksquared-16/alloy/internal/jobs/store"
	"github.com/ksquared-16/alloy/platform/logger"
)

// Service coordinates job dispatch and contractor reply resolution.
type Service struct {
	store        store.Store
	directory    ports.ContractorDirectory
	messenger    ports.Messenger
	writer       ports.JobRecordWriter
	eventBus     events.Bus // optional
	requiredTags []string
	log          *logger.Logger
	now          func() time.Time
}

// New creates a jobs service. requiredTags is the tag set a contact must carry
// to receive broadcasts.
func New(st store.Store, directory ports.ContractorDirectory, messenger ports.Messenger, writer ports.JobRecordWriter, requiredTags []string, log *logger.Logger) *Service {
	return &Service{
		store:        st,
		directory:    directory,
		messenger:    messenger,
		writer:       writer,
		requiredTags: requiredTags,
		log:          log,
		now:          time.Now,
	}
}

// SetEventBus injects the event bus (set after construction).
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// EligibleContractors fetches the directory and keeps contacts carrying every required tag.
func (s *Service) EligibleContractors(ctx context.Context) ([]domain.Contractor, error) {
	contacts, err := s.directory.ListContractors(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterEligible(contacts, s.requiredTags), nil
}

// Jobs returns every stored job.
func (s *Service) Jobs(ctx context.Context) ([]domain.Job, error) {
	return s.store.All(ctx)
}

// eligibleOrEmpty degrades a directory failure to an empty set.
func (s *Service) eligibleOrEmpty(ctx context.Context) []domain.Contractor {
	contractors, err := s.EligibleContractors(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("contractor directory unavailable", "error", err)
		return nil
	}
	return contractors
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

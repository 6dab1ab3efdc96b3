package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/internal/leads/ports"
	"github.com/ksquared-16/alloy/internal/leads/transport"
	"github.com/ksquared-16/alloy/platform/apperr"
	"github.com/ksquared-16/alloy/platform/logger"
	"github.com/ksquared-16/alloy/platform/phone"
	"github.com/ksquared-16/alloy/platform/sanitize"
)

const (
	KindCleaning = "cleaning"
	KindPros     = "pros"

	leadSource  = "Website Lead"
	defaultCity = "Bend"
)

var (
	cleaningTags = []string{"cleaning_lead", "website_lead"}
	prosTags     = []string{"pros_application", "website_lead"}
)

// Service turns website submissions into CRM contacts.
type Service struct {
	crm      ports.ContactCreator
	eventBus events.Bus // optional
	log      *logger.Logger
}

// New creates a lead intake service.
func New(crm ports.ContactCreator, log *logger.Logger) *Service {
	return &Service{crm: crm, log: log}
}

// SetEventBus injects the event bus (set after construction).
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SubmitCleaningLead creates the homeowner contact. The city defaults to Bend.
func (s *Service) SubmitCleaningLead(ctx context.Context, req transport.CleaningLeadRequest) (string, error) {
	fields := map[string]string{}
	setField(fields, "address", req.Address)
	setField(fields, "city", req.City)
	if fields["city"] == "" {
		fields["city"] = defaultCity
	}
	setField(fields, "zip", req.Zip)
	setField(fields, "home_size", req.HomeSize)
	if req.Bedrooms != nil {
		fields["bedrooms"] = strconv.Itoa(*req.Bedrooms)
	}
	if req.Bathrooms != nil {
		fields["bathrooms"] = strconv.Itoa(*req.Bathrooms)
	}
	setField(fields, "preferred_frequency", req.PreferredFrequency)
	setField(fields, "notes", req.Notes)

	return s.create(ctx, KindCleaning, req.Name, req.Email, req.Phone, cleaningTags, fields)
}

// SubmitProsApplication creates the applicant contact tagged for recruitment review.
func (s *Service) SubmitProsApplication(ctx context.Context, req transport.ProsApplicationRequest) (string, error) {
	fields := map[string]string{}
	setField(fields, "experience", req.Experience)
	setField(fields, "notes", req.Notes)

	return s.create(ctx, KindPros, req.Name, req.Email, req.Phone, prosTags, fields)
}

func (s *Service) create(ctx context.Context, kind, name, email, phoneNumber string, tags []string, fields map[string]string) (string, error) {
	first, last := SplitName(sanitize.Text(name))
	contact := ports.NewContact{
		FirstName:    first,
		LastName:     last,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Phone:        phone.NormalizeE164(phoneNumber),
		Source:       leadSource,
		Tags:         append([]string(nil), tags...),
		CustomFields: fields,
	}

	contactID, err := s.crm.CreateContact(ctx, contact)
	if err != nil {
		s.log.WithContext(ctx).Error("lead contact creation failed", "kind", kind, "error", err)
		return "", apperr.Upstream("failed to submit your request, please try again or contact support", err)
	}

	s.log.WithContext(ctx).Info("lead submitted", "kind", kind, "contactId", contactID)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadSubmitted{
			BaseEvent: events.NewBaseEvent(),
			Kind:      kind,
			ContactID: contactID,
		})
	}
	return contactID, nil
}

// SplitName splits a full name on the first run of whitespace.
func SplitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func setField(fields map[string]string, key, value string) {
	if v := sanitize.Text(value); v != "" {
		fields[key] = v
	}
}

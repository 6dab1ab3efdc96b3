// Package leads provides the website lead intake module.
package leads

import (
	"github.com/ksquared-16/alloy/internal/events"
	apphttp "github.com/ksquared-16/alloy/internal/http"
	"github.com/ksquared-16/alloy/internal/leads/handler"
	"github.com/ksquared-16/alloy/internal/leads/ports"
	"github.com/ksquared-16/alloy/internal/leads/service"
	"github.com/ksquared-16/alloy/internal/leads/transport"
	"github.com/ksquared-16/alloy/platform/logger"
	"github.com/ksquared-16/alloy/platform/validator"
)

// Module represents the leads domain module
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new leads module with all dependencies wired
func NewModule(crm ports.ContactCreator, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	svc := service.New(crm, log)
	if eventBus != nil {
		svc.SetEventBus(eventBus)
	}
	return &Module{
		handler: handler.New(svc, val),
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes registers the module's routes on the rate-limited public group
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

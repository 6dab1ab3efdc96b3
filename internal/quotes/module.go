// Package quotes provides the cleaning quote lookup module.
package quotes

import (
	apphttp "github.com/ksquared-16/alloy/internal/http"
	"github.com/ksquared-16/alloy/internal/quotes/handler"
	"github.com/ksquared-16/alloy/internal/quotes/ports"
	"github.com/ksquared-16/alloy/internal/quotes/service"
	"github.com/ksquared-16/alloy/platform/logger"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(contacts ports.ContactSearcher, opportunities ports.OpportunityReader, log *logger.Logger) *Module {
	svc := service.New(contacts, opportunities, log)
	return &Module{
		handler: handler.New(svc),
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
	if ctx.Debug != nil {
		m.handler.RegisterDebugRoutes(ctx.Debug)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

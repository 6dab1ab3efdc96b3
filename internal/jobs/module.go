// Package jobs provides the job dispatch domain module.
package jobs

import (
	"github.com/ksquared-16/alloy/internal/events"
	apphttp "github.com/ksquared-16/alloy/internal/http"
	"github.com/ksquared-16/alloy/internal/jobs/handler"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
	"github.com/ksquared-16/alloy/internal/jobs/service"
	"github.com/ksquared-16/alloy/internal/jobs/store"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"
)

// Dependencies groups the collaborators the jobs module needs from the composition root.
type Dependencies struct {
	Store     store.Store
	Directory ports.ContractorDirectory
	Messenger ports.Messenger
	Writer    ports.JobRecordWriter
	EventBus  events.Bus
}

// Module represents the jobs domain module
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new jobs module with all dependencies wired
func NewModule(deps Dependencies, cfg config.DispatchConfig, log *logger.Logger) *Module {
	svc := service.New(deps.Store, deps.Directory, deps.Messenger, deps.Writer, cfg.GetContractorTags(), log)
	if deps.EventBus != nil {
		svc.SetEventBus(deps.EventBus)
	}

	return &Module{
		handler: handler.New(svc),
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "jobs"
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

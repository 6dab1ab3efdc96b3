// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"
)

// ServiceName is reported by the root health route.
const ServiceName = "alloy-dispatcher"

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP settings only.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (job store ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

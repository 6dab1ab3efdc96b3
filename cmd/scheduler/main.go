package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksquared-16/alloy/internal/adapters"
	"github.com/ksquared-16/alloy/internal/ghl"
	"github.com/ksquared-16/alloy/internal/scheduler"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Worker-side write-back replay (no HTTP handlers required).
	crm := ghl.NewClient(cfg, log)
	writer := adapters.NewJobRecordWriter(crm)

	worker, err := scheduler.NewWorker(cfg, writer, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

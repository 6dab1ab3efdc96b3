package scheduler

import (
	"context"
	"fmt"

	"github.com/ksquared-16/alloy/internal/jobs/ports"
	"github.com/ksquared-16/alloy/internal/telemetry"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	writer ports.JobRecordWriter
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, writer ports.JobRecordWriter, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		writer: writer,
		log:    log,
	}

	mux.HandleFunc(TaskJobWriteBack, w.handleJobWriteBack)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleJobWriteBack replays a CRM write-back. Returning an error lets asynq
// retry with backoff until MaxRetry is exhausted.
func (w *Worker) handleJobWriteBack(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseJobWriteBackPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.JobID == "" || payload.ContractorID == "" {
		return fmt.Errorf("%w: write-back payload missing job or contractor id", asynq.SkipRetry)
	}

	if err := w.writer.WriteAssignment(ctx, payload.Assignment()); err != nil {
		telemetry.WriteBacks.WithLabelValues("retry_error").Inc()
		w.log.WithJobID(payload.JobID).Warn("job write-back retry failed", "error", err)
		return err
	}

	telemetry.WriteBacks.WithLabelValues("retry_ok").Inc()
	w.log.WithJobID(payload.JobID).Info("job write-back retried successfully", "contractorId", payload.ContractorID)
	return nil
}

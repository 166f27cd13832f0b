// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"

	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/metrics"
	"rewards-workers/internal/common/observability"
)

// HandlerFunc is the job handler shape used by every worker.
type HandlerFunc func(client worker.JobClient, job entities.Job)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusThrown    = "bpmn_error"
	statusUnknown   = "unreported"
)

// Register opens a job worker for taskType when it is enabled. It returns nil
// for disabled workers.
func Register(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jw
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete command: %w", err)
	}
	return nil
}

// recordingClient notes which terminal command a handler issued.
type recordingClient struct {
	worker.JobClient
	status string
}

func (r *recordingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	r.status = statusCompleted
	return r.JobClient.NewCompleteJobCommand()
}

func (r *recordingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	r.status = statusFailed
	return r.JobClient.NewFailJobCommand()
}

func (r *recordingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	r.status = statusThrown
	return r.JobClient.NewThrowErrorCommand()
}

// Instrument wraps handler with Prometheus job metrics and an OpenTelemetry
// span. obs may be nil.
func Instrument(taskType string, obs *observability.Observability, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		rec := &recordingClient{JobClient: client, status: statusUnknown}
		handler(rec, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if rec.status == statusCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		} else {
			metrics.WorkerJobsFailed.WithLabelValues(taskType, rec.status).Inc()
		}

		span.SetAttributes(attribute.String("job.status", rec.status))
		obs.RecordJobProcessed(ctx, taskType, rec.status)
		obs.RecordJobDuration(ctx, taskType, elapsed, rec.status)
	}
}

package buildusersignals

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rewards-workers/internal/common/camunda"
	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/validation"
	"rewards-workers/internal/personalization/signals"
	"rewards-workers/internal/repository"
	"rewards-workers/internal/workers/personalization"
	"rewards-workers/pkg/registry"
)

const TaskType = registry.TaskBuildUserSignals

type Handler struct {
	config   *Config
	logger   logger.Logger
	location *time.Location
	signals  personalization.SignalLoader
	now      personalization.Clock
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Users        repository.UserStore
	Purchases    repository.PurchaseStore
	Enrichment   signals.EnrichmentStore
	Clock        personalization.Clock
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	loc, err := time.LoadLocation(workerConfig.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: timezone: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:   workerConfig,
		logger:   log,
		location: loc,
		signals: personalization.SignalLoader{
			Users:      opts.Users,
			Purchases:  opts.Purchases,
			Enrichment: opts.Enrichment,
			Log:        log,
		},
		now: opts.Clock,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	log := logger.ForJob(h.logger, TaskType, job.GetKey(), job.GetProcessInstanceKey())
	errHandler := errors.NewErrorHandler(log)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := validation.DecodeVariables(job.GetVariables(), registry.InputSchema(TaskType), &input); err != nil {
		errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("Failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("User signals built", map[string]interface{}{
		"userId":        input.UserID,
		"profileFound":  output.Signals.ProfileFound,
		"purchaseCount": output.Signals.PurchaseCount,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	now := h.now.Now(h.location)
	answers := signals.ParseQuestionnaire(input.Questionnaire)

	s, user, err := h.signals.Load(ctx, input.UserID, answers, now)
	if err != nil {
		return nil, err
	}
	return &Output{Signals: toSignals(input.UserID, user, s)}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

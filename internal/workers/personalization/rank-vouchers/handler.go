package rankvouchers

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rewards-workers/internal/common/camunda"
	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/metrics"
	"rewards-workers/internal/common/validation"
	"rewards-workers/internal/personalization/scoring"
	"rewards-workers/internal/personalization/signals"
	"rewards-workers/internal/repository"
	"rewards-workers/internal/workers/personalization"
	"rewards-workers/pkg/registry"
)

const TaskType = registry.TaskRankVouchers

type Handler struct {
	config   *Config
	logger   logger.Logger
	engine   *scoring.Engine
	location *time.Location
	catalog  personalization.CatalogLoader
	signals  personalization.SignalLoader
	now      personalization.Clock
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Catalog      repository.CatalogSource
	Users        repository.UserStore
	Purchases    repository.PurchaseStore
	Enrichment   signals.EnrichmentStore
	Clock        personalization.Clock
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig, err := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
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
		engine:   scoring.NewEngine(workerConfig.Weights, workerConfig.Calendar),
		location: loc,
		catalog: personalization.CatalogLoader{
			Source:     opts.Catalog,
			SourceName: workerConfig.CatalogSource,
			Log:        log,
		},
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

	input, err := h.parseInput(job)
	if err != nil {
		errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("Failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("Vouchers ranked", map[string]interface{}{
		"requestId":       output.RequestID,
		"userId":          input.UserID,
		"recommendations": len(output.Recommendations),
		"eligibleCount":   output.EligibleCount,
	})
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := validation.DecodeVariables(job.GetVariables(), registry.InputSchema(TaskType), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute ranks the catalog for one request. The clock is read once and every
// time-dependent score uses that instant.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	engine := h.engine
	if len(input.Weights) > 0 {
		w, err := h.config.Weights.Override(input.Weights)
		if err != nil {
			return nil, errors.NewInvalidWeightsError(err)
		}
		engine = engine.WithWeights(w)
	}

	now := h.now.Now(h.location)

	catalog, skipped, err := h.catalog.Load(ctx, input.Catalog, now)
	if err != nil {
		return nil, err
	}

	answers := signals.ParseQuestionnaire(input.Questionnaire)
	userSignals, _, err := h.signals.Load(ctx, input.UserID, answers, now)
	if err != nil {
		return nil, err
	}

	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = h.config.MaxResults
	}

	ranked := engine.Rank(catalog, userSignals, maxResults)
	eligible := scoring.CountEligible(catalog, userSignals)

	metrics.VouchersScored.Add(float64(eligible))
	metrics.VouchersIneligible.WithLabelValues(TaskType).Add(float64(len(catalog) - eligible + skipped))

	recommendations := make([]Recommendation, 0, len(ranked))
	for _, s := range ranked {
		metrics.RecommendationRelevance.Observe(s.RelevanceScore)
		recommendations = append(recommendations, toRecommendation(s))
	}

	return &Output{
		RequestID:       uuid.NewString(),
		GeneratedAt:     now,
		Recommendations: recommendations,
		EligibleCount:   eligible,
		CatalogCount:    len(catalog),
		SkippedRecords:  skipped,
	}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

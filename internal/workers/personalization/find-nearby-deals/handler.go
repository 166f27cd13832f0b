package findnearbydeals

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
	"rewards-workers/internal/common/metrics"
	"rewards-workers/internal/common/validation"
	"rewards-workers/internal/personalization/geo"
	"rewards-workers/internal/personalization/proximity"
	"rewards-workers/internal/repository"
	"rewards-workers/internal/workers/personalization"
	"rewards-workers/pkg/registry"
)

const TaskType = registry.TaskFindNearbyDeals

type Handler struct {
	config   *Config
	logger   logger.Logger
	location *time.Location
	catalog  personalization.CatalogLoader
	branches repository.BranchStore
	now      personalization.Clock
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Catalog      repository.CatalogSource
	Branches     repository.BranchStore
	Clock        personalization.Clock
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Branches == nil {
		return nil, fmt.Errorf("invalid configuration for %s: branch store is required", TaskType)
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
		catalog: personalization.CatalogLoader{
			Source:     opts.Catalog,
			SourceName: workerConfig.CatalogSource,
			Log:        log,
		},
		branches: opts.Branches,
		now:      opts.Clock,
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
	log.Info("Nearby deals matched", map[string]interface{}{
		"deals":       output.Count,
		"openNowOnly": input.OpenNowOnly,
	})
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := validation.DecodeVariables(job.GetVariables(), registry.InputSchema(TaskType), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute pairs eligible vouchers with their merchant's nearest branch.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Latitude == nil || input.Longitude == nil {
		return nil, errors.NewLocationRequiredError()
	}

	now := h.now.Now(h.location)

	catalog, skipped, err := h.catalog.Load(ctx, input.Catalog, now)
	if err != nil {
		return nil, err
	}

	businesses, branches, err := h.branches.Directory(ctx)
	if err != nil {
		return nil, errors.NewBranchDirectoryLoadFailedError(err)
	}

	query := proximity.Query{
		Origin:      geo.Point{Lat: *input.Latitude, Lng: *input.Longitude},
		Now:         now,
		MaxResults:  input.MaxResults,
		OpenNowOnly: input.OpenNowOnly,
		RadiusKm:    h.config.RadiusKm,
	}
	if query.MaxResults <= 0 {
		query.MaxResults = h.config.MaxResults
	}
	if input.RadiusKm != nil {
		query.RadiusKm = *input.RadiusKm
	}

	matched := proximity.NearbyDeals(query, catalog,
		proximity.NewBranchDirectory(branches),
		proximity.NewAliasMap(businesses, h.config.AliasOverrides))

	metrics.NearbyDealsReturned.Observe(float64(len(matched)))

	deals := make([]Deal, 0, len(matched))
	for _, d := range matched {
		deals = append(deals, toDeal(d))
	}

	return &Output{
		Deals:          deals,
		Count:          len(deals),
		GeneratedAt:    now,
		SkippedRecords: skipped,
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

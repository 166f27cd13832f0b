package main

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"rewards-workers/internal/common/aws"
	"rewards-workers/internal/common/camunda"
	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/database"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/observability"
	"rewards-workers/internal/repository"

	bus "rewards-workers/internal/workers/personalization/build-user-signals"
	fnd "rewards-workers/internal/workers/personalization/find-nearby-deals"
	rv "rewards-workers/internal/workers/personalization/rank-vouchers"
	sda "rewards-workers/internal/workers/personalization/send-deal-alert"
)

// dependencies are the repositories and notifiers shared by the workers.
type dependencies struct {
	catalog    repository.CatalogSource
	users      *repository.UserRepository
	purchases  *repository.PurchaseRepository
	enrichment *repository.EnrichmentRepository
	branches   *repository.BranchRepository
	throttle   *repository.AlertThrottle
	sms        aws.Notifier
	email      aws.Notifier
}

func buildDependencies(ctx context.Context, cfg *config.Config, conns *database.Connections, log logger.Logger) (*dependencies, error) {
	db := conns.Postgres.DB
	rdb := conns.Redis.Client

	deps := &dependencies{
		users:      repository.NewUserRepository(db, rdb, cfg.Cache.ProfileTTL),
		purchases:  repository.NewPurchaseRepository(db),
		enrichment: repository.NewEnrichmentRepository(db, rdb, cfg.Cache.EnrichmentTTL),
		branches:   repository.NewBranchRepository(db, rdb, cfg.Cache.DirectoryTTL),
		throttle:   repository.NewAlertThrottle(rdb),
	}

	switch cfg.Catalog.Source {
	case config.CatalogSourceElasticsearch:
		deps.catalog = repository.NewCatalogSearch(conns.Elasticsearch.Client, cfg.Catalog.Index)
	default:
		deps.catalog = repository.NewCatalogRepository(db)
	}

	if cfg.Alerts.SMS.Enabled || cfg.Alerts.Email.Enabled {
		clients, err := aws.NewClients(ctx, cfg.Alerts.Region)
		if err != nil {
			return nil, fmt.Errorf("aws clients: %w", err)
		}
		deps.sms = aws.NewSMSNotifier(clients.SNS, cfg.Alerts.SMS.SenderID)
		deps.email = aws.NewEmailNotifier(clients.SES, cfg.Alerts.Email.FromEmail)
	} else {
		log.Warn("No alert channel enabled; deal alerts will be skipped", nil)
	}

	return deps, nil
}

// registerWorkers builds every handler and opens a job worker for each
// enabled task type.
func registerWorkers(client zbc.Client, cfg *config.Config, deps *dependencies, obs *observability.Observability, log logger.Logger) ([]worker.JobWorker, error) {
	signalsHandler, err := bus.NewHandler(bus.HandlerOptions{
		AppConfig:  cfg,
		Logger:     log,
		Users:      deps.users,
		Purchases:  deps.purchases,
		Enrichment: deps.enrichment,
	})
	if err != nil {
		return nil, err
	}

	rankHandler, err := rv.NewHandler(rv.HandlerOptions{
		AppConfig:  cfg,
		Logger:     log,
		Catalog:    deps.catalog,
		Users:      deps.users,
		Purchases:  deps.purchases,
		Enrichment: deps.enrichment,
	})
	if err != nil {
		return nil, err
	}

	nearbyHandler, err := fnd.NewHandler(fnd.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
		Catalog:   deps.catalog,
		Branches:  deps.branches,
	})
	if err != nil {
		return nil, err
	}

	alertHandler, err := sda.NewHandler(sda.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
		Users:     deps.users,
		SMS:       deps.sms,
		Email:     deps.email,
		Throttle:  deps.throttle,
	})
	if err != nil {
		return nil, err
	}

	handlers := map[string]camunda.HandlerFunc{
		bus.TaskType: signalsHandler.Handle,
		rv.TaskType:  rankHandler.Handle,
		fnd.TaskType: nearbyHandler.Handle,
		sda.TaskType: alertHandler.Handle,
	}

	var workers []worker.JobWorker
	for _, taskType := range []string{bus.TaskType, rv.TaskType, fnd.TaskType, sda.TaskType} {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		jw := camunda.Register(client, taskType, wcfg, camunda.Instrument(taskType, obs, handlers[taskType]), log)
		if jw != nil {
			workers = append(workers, jw)
		}
	}
	return workers, nil
}

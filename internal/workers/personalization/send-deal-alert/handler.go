package senddealalert

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rewards-workers/internal/common/aws"
	"rewards-workers/internal/common/camunda"
	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/common/metrics"
	"rewards-workers/internal/common/validation"
	"rewards-workers/internal/models"
	"rewards-workers/internal/repository"
	"rewards-workers/internal/workers/personalization"
	"rewards-workers/pkg/registry"
)

const TaskType = registry.TaskSendDealAlert

type Handler struct {
	config   *Config
	logger   logger.Logger
	users    repository.UserStore
	sms      aws.Notifier
	email    aws.Notifier
	throttle repository.Throttle
	now      personalization.Clock
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Users        repository.UserStore
	SMS          aws.Notifier
	Email        aws.Notifier
	Throttle     repository.Throttle
	Clock        personalization.Clock
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Users == nil {
		return nil, fmt.Errorf("invalid configuration for %s: user store is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	h := &Handler{
		config:   workerConfig,
		logger:   log,
		users:    opts.Users,
		throttle: opts.Throttle,
		now:      opts.Clock,
	}
	if workerConfig.SMSEnabled {
		h.sms = opts.SMS
	}
	if workerConfig.EmailEnabled {
		h.email = opts.Email
	}
	return h, nil
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
	log.Info("Deal alert processed", map[string]interface{}{
		"userId":        input.UserID,
		"sent":          output.Sent,
		"channel":       output.Channel,
		"skippedReason": output.SkippedReason,
	})
}

// Execute delivers one alert, or explains why it was skipped. Skips complete
// the job normally; only delivery and profile store failures are errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	user, err := h.users.GetUser(ctx, input.UserID)
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return skipped(SkipUnknownUser), nil
	case err != nil:
		return nil, errors.NewUserProfileLoadFailedError(input.UserID, err)
	}

	freq := user.Preferences.NotificationFrequency
	if freq == nil || *freq == models.NotificationNever {
		return skipped(SkipNotificationsDisabled), nil
	}

	notifier, to := h.pickChannel(user)
	if notifier == nil {
		return skipped(SkipNoChannel), nil
	}

	key, held := h.acquire(ctx, user.ID, *freq)
	if !held {
		return skipped(SkipRateLimited), nil
	}

	msg := render(notifier.Channel(), to, user.Name, input.Deals, h.config.MaxDeals)
	messageID, err := notifier.Send(ctx, msg)
	if err != nil {
		if key != "" {
			if relErr := h.throttle.Release(ctx, key); relErr != nil {
				h.logger.Warn("Failed to release alert throttle", map[string]interface{}{
					"userId": user.ID,
					"error":  relErr.Error(),
				})
			}
		}
		return nil, errors.NewAlertSendFailedError(notifier.Channel(), err)
	}

	metrics.DealAlertsSent.WithLabelValues(notifier.Channel()).Inc()
	return &Output{
		Sent:      true,
		AlertID:   uuid.NewString(),
		Channel:   notifier.Channel(),
		MessageID: messageID,
		SentAt:    h.now.Now(time.UTC),
	}, nil
}

// pickChannel prefers SMS to a valid E.164 phone, then email.
func (h *Handler) pickChannel(user *models.User) (aws.Notifier, string) {
	if h.sms != nil && validation.ValidatePhone(user.Phone) {
		return h.sms, user.Phone
	}
	if h.email != nil && validation.ValidateEmail(user.Email) {
		return h.email, user.Email
	}
	return nil, ""
}

// acquire takes the per-user throttle for daily and weekly users. It returns
// an empty key when the frequency is not throttled. A throttle store failure
// lets the alert through.
func (h *Handler) acquire(ctx context.Context, userID string, freq models.NotificationFrequency) (string, bool) {
	var window time.Duration
	switch freq {
	case models.NotificationDaily:
		window = h.config.DailyWindow
	case models.NotificationWeekly:
		window = h.config.WeeklyWindow
	default:
		return "", true
	}
	if h.throttle == nil {
		return "", true
	}

	key := repository.AlertKey(userID)
	ok, err := h.throttle.Acquire(ctx, key, window)
	if err != nil {
		h.logger.Warn("Alert throttle unavailable, sending without it", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return "", true
	}
	return key, ok
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

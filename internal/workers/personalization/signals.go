package personalization

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/errgroup"

	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/signals"
	"rewards-workers/internal/repository"
)

// SignalLoader gathers everything the aggregator needs for one user. Any
// store may be nil, in which case that input is treated as absent.
type SignalLoader struct {
	Users      repository.UserStore
	Purchases  repository.PurchaseStore
	Enrichment signals.EnrichmentStore
	Log        logger.Logger
}

// Load builds the signals for userID, querying the stores concurrently. An
// empty userID or an unknown user is anonymous. Profile and purchase-history
// failures are returned as retryable errors; enrichment failures only log.
func (l SignalLoader) Load(ctx context.Context, userID string, answers signals.Questionnaire, now time.Time) (models.UserSignals, *models.User, error) {
	if userID == "" {
		return signals.Build(nil, nil, answers, nil, now), nil, nil
	}

	var (
		g          errgroup.Group
		user       *models.User
		purchases  []models.UserVoucher
		enrichment *models.EnrichmentData
		userErr    error
		historyErr error
	)

	if l.Users != nil {
		g.Go(func() error {
			u, err := l.Users.GetUser(ctx, userID)
			switch {
			case stderrors.Is(err, repository.ErrNotFound):
				l.Log.Warn("user not found, ranking anonymously", map[string]interface{}{"userId": userID})
			case err != nil:
				userErr = errors.NewUserProfileLoadFailedError(userID, err)
			default:
				user = u
			}
			return userErr
		})
	}

	if l.Purchases != nil {
		g.Go(func() error {
			p, err := l.Purchases.PurchaseHistory(ctx, userID)
			if err != nil {
				historyErr = errors.NewPurchaseHistoryLoadFailedError(userID, err)
				return historyErr
			}
			purchases = p
			return nil
		})
	}

	if l.Enrichment != nil {
		g.Go(func() error {
			e, err := l.Enrichment.Lookup(ctx, userID)
			if err != nil {
				l.Log.Warn("enrichment lookup failed, continuing without it", map[string]interface{}{
					"userId": userID,
					"error":  err.Error(),
				})
				return nil
			}
			enrichment = e
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Report the profile failure first when both stores fail.
		if userErr != nil {
			return models.UserSignals{}, nil, userErr
		}
		return models.UserSignals{}, nil, historyErr
	}

	return signals.Build(user, purchases, answers, enrichment, now), user, nil
}

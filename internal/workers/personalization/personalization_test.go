package personalization

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/signals"
	"rewards-workers/internal/repository"
)

var fixedNow = time.Date(2024, 7, 10, 13, 0, 0, 0, time.UTC)

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Catalog
// ==========================

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-08-01T10:00:00Z", want: time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-08-01T10:00:00+03:00", want: time.Date(2024, 8, 1, 7, 0, 0, 0, time.UTC)},
		{in: "2024-08-01", want: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{in: "next tuesday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiry(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDecodeCatalog_SkipsMalformedRecords(t *testing.T) {
	records := []CatalogRecord{
		{ID: "v-1", Title: "Coffee", Category: "Food", ValidUntil: "2024-08-01T00:00:00Z", InStock: true},
		{ID: "v-2", Title: "Broken", Category: "food", ValidUntil: "soon", InStock: true},
		{Title: "No id", ValidUntil: "2024-08-01"},
	}

	vouchers, skipped := DecodeCatalog(records, logger.NewTestLogger(t))

	require.Len(t, vouchers, 1)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, models.CategoryFood, vouchers[0].Category)
	assert.True(t, vouchers[0].EligibleAt(fixedNow))
}

func TestCatalogLoader_Load(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	t.Run("inline records win over the source", func(t *testing.T) {
		src := &mockCatalog{}
		l := CatalogLoader{Source: src, SourceName: "postgres", Log: log}
		vouchers, skipped, err := l.Load(ctx, []CatalogRecord{}, fixedNow)
		require.NoError(t, err)
		assert.Empty(t, vouchers)
		assert.Zero(t, skipped)
		src.AssertNotCalled(t, "ActiveVouchers", mock.Anything, mock.Anything)
	})

	t.Run("source is used without inline records", func(t *testing.T) {
		src := &mockCatalog{}
		src.On("ActiveVouchers", ctx, fixedNow).Return([]models.Voucher{{ID: "v-1"}}, nil)
		vouchers, _, err := CatalogLoader{Source: src, Log: log}.Load(ctx, nil, fixedNow)
		require.NoError(t, err)
		assert.Len(t, vouchers, 1)
	})

	t.Run("source failure is a catalog load error", func(t *testing.T) {
		src := &mockCatalog{}
		src.On("ActiveVouchers", ctx, fixedNow).Return(nil, stderrors.New("timeout"))
		_, _, err := CatalogLoader{Source: src, SourceName: "elasticsearch", Log: log}.Load(ctx, nil, fixedNow)
		requireCode(t, err, errors.ErrCodeCatalogLoadFailed)
	})

	t.Run("missing index is not retried", func(t *testing.T) {
		src := &mockCatalog{}
		src.On("ActiveVouchers", ctx, fixedNow).
			Return(nil, fmt.Errorf("%w: vouchers", repository.ErrIndexNotFound))
		_, _, err := CatalogLoader{Source: src, SourceName: "elasticsearch", Log: log}.Load(ctx, nil, fixedNow)
		requireCode(t, err, errors.ErrCodeIndexNotFound)
		assert.False(t, errors.IsRetryableErrorCode(errors.ErrCodeIndexNotFound))
	})

	t.Run("no source and no inline catalog", func(t *testing.T) {
		_, _, err := CatalogLoader{Log: log}.Load(ctx, nil, fixedNow)
		requireCode(t, err, errors.ErrCodeInvalidInput)
	})
}

// ==========================
// Signals
// ==========================

func TestSignalLoader_Load(t *testing.T) {
	ctx := context.Background()
	focus := models.SpendingFocusEntertainment
	user := &models.User{ID: "u-1", Preferences: models.Preferences{SpendingFocus: &focus}}
	history := []models.UserVoucher{
		{ID: "p-1", Voucher: models.Voucher{MerchantName: "Aroma", Category: models.CategoryFood}},
	}
	enrichment := &models.EnrichmentData{UserID: "u-1", Interests: []string{"coffee"}}

	users := &mockUsers{}
	users.On("GetUser", ctx, "u-1").Return(user, nil)
	purchases := &mockPurchases{}
	purchases.On("PurchaseHistory", ctx, "u-1").Return(history, nil)
	enrich := &mockEnrichment{}
	enrich.On("Lookup", ctx, "u-1").Return(enrichment, nil)

	l := SignalLoader{Users: users, Purchases: purchases, Enrichment: enrich, Log: logger.NewTestLogger(t)}
	deal := models.DealPreferenceBigDiscount
	s, got, err := l.Load(ctx, "u-1", signals.Questionnaire{DealPreference: &deal}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, user, got)
	require.NotNil(t, s.SpendingFocus)
	assert.Equal(t, focus, *s.SpendingFocus)
	require.NotNil(t, s.DealPreference)
	assert.Equal(t, deal, *s.DealPreference)
	assert.Equal(t, 1, s.PurchasedCategories[models.CategoryFood])
	assert.Equal(t, enrichment, s.Enrichment)
	assert.Equal(t, fixedNow, s.CurrentTime)
}

func TestSignalLoader_Degradation(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	t.Run("anonymous request touches no store", func(t *testing.T) {
		users := &mockUsers{}
		s, user, err := SignalLoader{Users: users, Log: log}.Load(ctx, "", signals.Questionnaire{}, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Empty(t, s.PurchaseHistory)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("unknown user and failed enrichment degrade", func(t *testing.T) {
		users := &mockUsers{}
		users.On("GetUser", ctx, "ghost").Return(nil, repository.ErrNotFound)
		enrich := &mockEnrichment{}
		enrich.On("Lookup", ctx, "ghost").Return(nil, stderrors.New("redis down"))

		s, user, err := SignalLoader{Users: users, Enrichment: enrich, Log: log}.Load(ctx, "ghost", signals.Questionnaire{}, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Nil(t, s.Enrichment)
		assert.Nil(t, s.SpendingFocus)
	})

	t.Run("profile store failure is retryable", func(t *testing.T) {
		users := &mockUsers{}
		users.On("GetUser", ctx, "u-1").Return(nil, stderrors.New("connection refused"))
		_, _, err := SignalLoader{Users: users, Log: log}.Load(ctx, "u-1", signals.Questionnaire{}, fixedNow)
		requireCode(t, err, errors.ErrCodeUserProfileLoadFailed)
	})

	t.Run("purchase history failure is retryable", func(t *testing.T) {
		purchases := &mockPurchases{}
		purchases.On("PurchaseHistory", ctx, "u-1").Return(nil, stderrors.New("connection refused"))
		_, _, err := SignalLoader{Purchases: purchases, Log: log}.Load(ctx, "u-1", signals.Questionnaire{}, fixedNow)
		requireCode(t, err, errors.ErrCodePurchaseHistoryLoadFailed)
	})

	t.Run("profile failure wins when both stores fail", func(t *testing.T) {
		users := &mockUsers{}
		users.On("GetUser", ctx, "u-1").Return(nil, stderrors.New("connection refused"))
		purchases := &mockPurchases{}
		purchases.On("PurchaseHistory", ctx, "u-1").Return(nil, stderrors.New("connection refused"))
		_, _, err := SignalLoader{Users: users, Purchases: purchases, Log: log}.Load(ctx, "u-1", signals.Questionnaire{}, fixedNow)
		requireCode(t, err, errors.ErrCodeUserProfileLoadFailed)
	})
}

func TestClock_Now(t *testing.T) {
	jerusalem, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)

	c := Clock(func() time.Time { return fixedNow })
	got := c.Now(jerusalem)
	assert.True(t, got.Equal(fixedNow))
	assert.Equal(t, 16, got.Hour())
}

package personalization

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rewards-workers/internal/models"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockPurchases struct{ mock.Mock }

func (m *mockPurchases) PurchaseHistory(ctx context.Context, userID string) ([]models.UserVoucher, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]models.UserVoucher)
	return p, args.Error(1)
}

type mockEnrichment struct{ mock.Mock }

func (m *mockEnrichment) Lookup(ctx context.Context, userID string) (*models.EnrichmentData, error) {
	args := m.Called(ctx, userID)
	e, _ := args.Get(0).(*models.EnrichmentData)
	return e, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) ActiveVouchers(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	args := m.Called(ctx, now)
	v, _ := args.Get(0).([]models.Voucher)
	return v, args.Error(1)
}

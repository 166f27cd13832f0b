package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-workers/internal/models"
)

var fixedNow = time.Date(2024, 7, 10, 13, 0, 0, 0, time.UTC)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

var voucherColumns = []string{
	"id", "title", "title_he", "merchant_name", "category",
	"original_price", "discounted_price", "discount_percent",
	"valid_until", "in_stock", "popular",
}

// ==========================
// Catalog
// ==========================

func TestCatalogRepository_ActiveVouchers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := fixedNow.Add(72 * time.Hour)
	mock.ExpectQuery("SELECT id, title").
		WithArgs(fixedNow).
		WillReturnRows(sqlmock.NewRows(voucherColumns).
			AddRow("v-1", "Coffee", "קפה", "Aroma", "food", 40.0, 30.0, 25.0, expiry, true, true).
			AddRow("v-2", "Cinema", "", "Yes Planet", "entertainment", 80.0, 60.0, 25.0, nil, true, false))

	repo := NewCatalogRepository(db)
	vouchers, err := repo.ActiveVouchers(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, vouchers, 2)

	assert.Equal(t, models.CategoryFood, vouchers[0].Category)
	assert.Equal(t, "קפה", vouchers[0].TitleHe)
	assert.True(t, vouchers[0].ValidUntil.Equal(expiry))
	assert.True(t, vouchers[1].ValidUntil.IsZero())
	assert.False(t, vouchers[1].EligibleAt(fixedNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title").WillReturnError(errors.New("connection reset"))

	_, err = NewCatalogRepository(db).ActiveVouchers(context.Background(), fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query vouchers")
}

func newSearchServer(t *testing.T, status int, body string, gotQuery *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, gotQuery)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestCatalogSearch_ActiveVouchers(t *testing.T) {
	body := `{"hits":{"hits":[
		{"_id":"v-1","_source":{"id":"v-1","title":"Coffee","merchantName":"Aroma","category":"food","validUntil":"2024-08-01T00:00:00Z","inStock":true}},
		{"_id":"v-2","_source":{"title":"Pizza","merchantName":"Domino's","category":"food","validUntil":"2024-08-01T00:00:00Z","inStock":true}},
		{"_id":"v-3","_source":{"id":"v-3","validUntil":"not-a-date"}}
	]}}`
	var query map[string]interface{}
	es := newSearchServer(t, http.StatusOK, body, &query)

	vouchers, err := NewCatalogSearch(es, "vouchers").ActiveVouchers(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, vouchers, 2)
	assert.Equal(t, "v-1", vouchers[0].ID)
	assert.Equal(t, "v-2", vouchers[1].ID, "falls back to the document id")
	assert.Equal(t, "Domino's", vouchers[1].MerchantName)

	require.NotNil(t, query)
	assert.Contains(t, mustJSON(t, query), `"gt":"2024-07-10T13:00:00Z"`)
}

func TestCatalogSearch_IndexMissing(t *testing.T) {
	es := newSearchServer(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`, nil)

	_, err := NewCatalogSearch(es, "vouchers").ActiveVouchers(context.Background(), fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexNotFound))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// ==========================
// Users
// ==========================

func TestUserRepository_GetUser_CachesProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newRedis(t)

	mock.ExpectQuery("SELECT id, name, phone, email").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "phone", "email", "spending_focus", "deal_preference", "notification_frequency",
		}).AddRow("u-1", "Dana", "+972500000000", nil, "food", "bogus", "daily"))

	repo := NewUserRepository(db, rdb, time.Minute)

	u, err := repo.GetUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, u.Preferences.SpendingFocus)
	assert.Equal(t, models.SpendingFocusFood, *u.Preferences.SpendingFocus)
	assert.Nil(t, u.Preferences.DealPreference, "unknown enum values are dropped")
	require.NotNil(t, u.Preferences.NotificationFrequency)
	assert.Equal(t, models.NotificationDaily, *u.Preferences.NotificationFrequency)
	assert.Empty(t, u.Email)
	assert.True(t, mr.Exists("user:profile:u-1"))

	// Second read is served from Redis; sqlmock would fail on an extra query.
	again, err := repo.GetUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, u, again)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, repo.Invalidate(context.Background(), "u-1"))
	assert.False(t, mr.Exists("user:profile:u-1"))
}

func TestUserRepository_GetUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewUserRepository(db, nil, time.Minute).GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==========================
// Purchases
// ==========================

func TestPurchaseRepository_PurchaseHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := append([]string{"id", "user_id", "status", "purchased_at"}, voucherColumns...)
	mock.ExpectQuery("FROM user_vouchers").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p-1", "u-1", "used", fixedNow.Add(-24*time.Hour),
				"v-1", "Coffee", "", "Aroma", "food", 40.0, 30.0, 25.0, fixedNow, true, false))

	history, err := NewPurchaseRepository(db).PurchaseHistory(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.PurchaseStatusUsed, history[0].Status)
	assert.Equal(t, "Aroma", history[0].Voucher.MerchantName)
	assert.Equal(t, models.CategoryFood, history[0].Voucher.Category)
}

func TestPurchaseRepository_EmptyHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM user_vouchers").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	history, err := NewPurchaseRepository(db).PurchaseHistory(context.Background(), "u-2")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

// ==========================
// Enrichment
// ==========================

func TestEnrichmentRepository_Lookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	_, rdb := newRedis(t)

	mock.ExpectQuery("FROM user_enrichment").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "interests", "income_level", "age_range", "gender", "city", "has_children",
		}).AddRow("u-1", "{coffee,travel}", "high", "25-34", nil, "Tel Aviv", true))

	repo := NewEnrichmentRepository(db, rdb, time.Hour)
	e, err := repo.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, []string{"coffee", "travel"}, e.Interests)
	assert.Equal(t, models.IncomeHigh, e.IncomeLevel)
	assert.True(t, e.HasChildren)

	cached, err := repo.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, e, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrichmentRepository_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM user_enrichment").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	e, err := NewEnrichmentRepository(db, nil, time.Hour).Lookup(context.Background(), "u-9")
	require.NoError(t, err)
	assert.Nil(t, e)
}

// ==========================
// Branches
// ==========================

func TestBranchRepository_Directory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newRedis(t)

	mock.ExpectQuery("FROM businesses").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_he"}).
			AddRow("aroma-espresso-bar", "Aroma Espresso Bar", "ארומה"))
	mock.ExpectQuery("FROM branches").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_id", "name", "address", "lat", "lng", "open_hour", "close_hour",
		}).
			AddRow("b-1", "aroma-espresso-bar", "Dizengoff", "Dizengoff 50", 32.0776, 34.7741, 7, 23).
			AddRow("b-2", "aroma-espresso-bar", "Airport", "Ben Gurion", 32.0004, 34.8706, nil, nil))

	repo := NewBranchRepository(db, rdb, time.Minute)
	businesses, branches, err := repo.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	require.Len(t, branches, 2)
	require.NotNil(t, branches[0].OpenHour)
	assert.Equal(t, 7, *branches[0].OpenHour)
	assert.Nil(t, branches[1].CloseHour)

	raw, err := mr.Get(branchDirectoryKey)
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw, "Dizengoff"))

	_, cachedBranches, err := repo.Directory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, branches, cachedBranches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepository_CorruptCacheFallsThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set(branchDirectoryKey, "{not json"))

	mock.ExpectQuery("FROM businesses").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_he"}))
	mock.ExpectQuery("FROM branches").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err = NewBranchRepository(db, rdb, time.Minute).Directory(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

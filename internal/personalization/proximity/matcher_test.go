package proximity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/geo"
)

var (
	fixedNow = time.Date(2024, time.July, 10, 13, 0, 0, 0, time.UTC)
	// Dizengoff Center, Tel Aviv
	origin = geo.Point{Lat: 32.0753, Lng: 34.7757}
)

func hour(h int) *int { return &h }

func testBusinesses() []models.Business {
	return []models.Business{
		{ID: "aroma-espresso-bar", Name: "Aroma Espresso Bar", NameHe: "ארומה אספרסו בר"},
		{ID: "castro", Name: "Castro", NameHe: "קסטרו"},
		{ID: "cinema-city", Name: "Cinema City", NameHe: "סינמה סיטי"},
		{ID: "no-branches", Name: "Online Only"},
	}
}

func testBranches() BranchDirectory {
	return NewBranchDirectory([]models.Branch{
		{ID: "aroma-far", BusinessID: "aroma-espresso-bar", Lat: 32.1093, Lng: 34.8555},
		{ID: "aroma-near", BusinessID: "aroma-espresso-bar", Lat: 32.0776, Lng: 34.7741},
		{ID: "castro-mid", BusinessID: "castro", Lat: 32.0853, Lng: 34.7818, OpenHour: hour(10), CloseHour: hour(21)},
		{ID: "cinema-glilot", BusinessID: "cinema-city", Lat: 32.1454, Lng: 34.8096, OpenHour: hour(18), CloseHour: hour(2)},
	})
}

func dealVoucher(id, merchant string, mutate ...func(*models.Voucher)) models.Voucher {
	v := models.Voucher{
		ID:           id,
		MerchantName: merchant,
		Category:     models.CategoryFood,
		ValidUntil:   fixedNow.Add(30 * 24 * time.Hour),
		InStock:      true,
	}
	for _, m := range mutate {
		m(&v)
	}
	return v
}

func dealIDs(deals []models.NearbyDeal) []string {
	ids := make([]string, len(deals))
	for i, d := range deals {
		ids[i] = d.Voucher.ID
	}
	return ids
}

// ==========================
// NearbyDeals
// ==========================

func TestNearbyDeals_PicksNearestBranchAndSortsByDistance(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), DefaultOverrides())
	catalog := []models.Voucher{
		dealVoucher("cinema", "Cinema City"),
		dealVoucher("castro", "קסטרו"),
		dealVoucher("aroma", "Aroma"),
	}

	deals := NearbyDeals(Query{Origin: origin, Now: fixedNow}, catalog, testBranches(), aliases)

	require.Len(t, deals, 3)
	assert.Equal(t, []string{"aroma", "castro", "cinema"}, dealIDs(deals))
	assert.Equal(t, "aroma-near", deals[0].Branch.ID)
	assert.Less(t, deals[0].DistanceKm, 0.5)
	for i := 1; i < len(deals); i++ {
		assert.LessOrEqual(t, deals[i-1].DistanceKm, deals[i].DistanceKm)
	}
}

func TestNearbyDeals_SkipsUnmappedMerchants(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), nil)
	catalog := []models.Voucher{
		dealVoucher("unknown", "Shop Around The Corner"),
		dealVoucher("short-name", "Aroma"), // resolvable only through an override
		dealVoucher("no-branches", "Online Only"),
		dealVoucher("castro", "Castro"),
	}

	deals := NearbyDeals(Query{Origin: origin, Now: fixedNow}, catalog, testBranches(), aliases)

	assert.Equal(t, []string{"castro"}, dealIDs(deals))
}

func TestNearbyDeals_AppliesEligibility(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), DefaultOverrides())
	catalog := []models.Voucher{
		dealVoucher("sold-out", "Castro", func(v *models.Voucher) { v.InStock = false }),
		dealVoucher("expired", "Castro", func(v *models.Voucher) { v.ValidUntil = fixedNow.Add(-time.Minute) }),
		dealVoucher("bad-expiry", "Castro", func(v *models.Voucher) { v.ValidUntil = time.Time{} }),
		dealVoucher("ok", "Castro"),
	}

	deals := NearbyDeals(Query{Origin: origin, Now: fixedNow}, catalog, testBranches(), aliases)

	assert.Equal(t, []string{"ok"}, dealIDs(deals))
}

func TestNearbyDeals_TruncatesAndKeepsCatalogOrderOnTies(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), nil)
	var catalog []models.Voucher
	for i := 0; i < 12; i++ {
		catalog = append(catalog, dealVoucher(fmt.Sprintf("castro-%02d", i), "Castro"))
	}

	deals := NearbyDeals(Query{Origin: origin, Now: fixedNow}, catalog, testBranches(), aliases)
	require.Len(t, deals, DefaultMaxResults)
	for i, d := range deals {
		assert.Equal(t, fmt.Sprintf("castro-%02d", i), d.Voucher.ID)
	}

	limited := NearbyDeals(Query{Origin: origin, Now: fixedNow, MaxResults: 2}, catalog, testBranches(), aliases)
	assert.Len(t, limited, 2)
}

func TestNearbyDeals_OpenNowOnlyAndRadius(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), DefaultOverrides())
	catalog := []models.Voucher{
		dealVoucher("cinema", "Cinema City"),
		dealVoucher("castro", "Castro"),
		dealVoucher("aroma", "Aroma"),
	}

	openOnly := NearbyDeals(Query{Origin: origin, Now: fixedNow, OpenNowOnly: true}, catalog, testBranches(), aliases)
	assert.Equal(t, []string{"aroma", "castro"}, dealIDs(openOnly))

	all := NearbyDeals(Query{Origin: origin, Now: fixedNow}, catalog, testBranches(), aliases)
	require.Len(t, all, 3)
	assert.False(t, all[2].OpenNow)

	withinTwoKm := NearbyDeals(Query{Origin: origin, Now: fixedNow, RadiusKm: 2}, catalog, testBranches(), aliases)
	assert.Equal(t, []string{"aroma", "castro"}, dealIDs(withinTwoKm))
}

func TestNearbyDeals_Deterministic(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), DefaultOverrides())
	catalog := []models.Voucher{dealVoucher("aroma", "Aroma"), dealVoucher("castro", "Castro")}
	q := Query{Origin: origin, Now: fixedNow}

	assert.Equal(t,
		NearbyDeals(q, catalog, testBranches(), aliases),
		NearbyDeals(q, catalog, testBranches(), aliases))
}

func TestNearbyDeals_EmptyInputs(t *testing.T) {
	deals := NearbyDeals(Query{Origin: origin, Now: fixedNow}, nil, nil, nil)

	assert.NotNil(t, deals)
	assert.Empty(t, deals)
}

// ==========================
// AliasMap
// ==========================

func TestAliasMap_Resolve(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), map[string]string{"Castro Men": "castro"})

	tests := []struct {
		name     string
		merchant string
		id       string
		ok       bool
	}{
		{"english name", "Castro", "castro", true},
		{"hebrew name", "סינמה סיטי", "cinema-city", true},
		{"override", "Castro Men", "castro", true},
		{"surrounding whitespace", "  Castro ", "castro", true},
		{"case differs", "castro", "", false},
		{"unknown", "Zara", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := aliases.Resolve(tt.merchant)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestAliasMap_OverrideWinsOverDisplayName(t *testing.T) {
	aliases := NewAliasMap(testBusinesses(), map[string]string{"Castro": "castro-outlet"})

	id, ok := aliases.Resolve("Castro")

	require.True(t, ok)
	assert.Equal(t, "castro-outlet", id)
}

func TestAliasMap_Nil(t *testing.T) {
	var aliases *AliasMap

	_, ok := aliases.Resolve("Castro")

	assert.False(t, ok)
	assert.Equal(t, 0, aliases.Len())
}

// ==========================
// Opening hours
// ==========================

func TestIsOpenAt(t *testing.T) {
	tests := []struct {
		name     string
		open     *int
		close    *int
		hour     int
		expected bool
	}{
		{"no hours", nil, nil, 3, true},
		{"only open hour", hour(9), nil, 3, true},
		{"same day inside", hour(9), hour(17), 12, true},
		{"same day at open", hour(9), hour(17), 9, true},
		{"same day at close", hour(9), hour(17), 17, false},
		{"same day before open", hour(9), hour(17), 8, false},
		{"wraps late evening", hour(20), hour(3), 23, true},
		{"wraps after midnight", hour(20), hour(3), 2, true},
		{"wraps at close", hour(20), hour(3), 3, false},
		{"wraps afternoon", hour(20), hour(3), 15, false},
		{"open equals close", hour(8), hour(8), 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := models.Branch{OpenHour: tt.open, CloseHour: tt.close}
			assert.Equal(t, tt.expected, IsOpenAt(b, tt.hour))
		})
	}
}

func TestOpenNow_UsesTimeLocation(t *testing.T) {
	jerusalem := time.FixedZone("IDT", 3*60*60)
	b := models.Branch{OpenHour: hour(9), CloseHour: hour(17)}

	// 07:00 UTC is 10:00 in Israel during summer time
	at := time.Date(2024, time.July, 10, 7, 0, 0, 0, time.UTC)

	assert.False(t, OpenNow(b, at))
	assert.True(t, OpenNow(b, at.In(jerusalem)))
}

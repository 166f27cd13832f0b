// Package proximity pairs eligible vouchers with the nearest branch of their
// merchant and orders them by distance from the user.
package proximity

import (
	"sort"
	"time"

	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/geo"
)

// DefaultMaxResults is used when a query does not set a positive limit.
const DefaultMaxResults = 10

// BranchDirectory lists branches per business id.
type BranchDirectory map[string][]models.Branch

// NewBranchDirectory groups branches by their business id.
func NewBranchDirectory(branches []models.Branch) BranchDirectory {
	dir := make(BranchDirectory)
	for _, b := range branches {
		dir[b.BusinessID] = append(dir[b.BusinessID], b)
	}
	return dir
}

// Query describes one nearby-deals lookup. Origin must be a valid
// coordinate; callers check presence before building the query.
type Query struct {
	Origin     geo.Point
	Now        time.Time
	MaxResults int
	// OpenNowOnly drops deals whose nearest branch is closed at Now.
	OpenNowOnly bool
	// RadiusKm drops deals farther than the radius when positive.
	RadiusKm float64
}

// NearbyDeals returns eligible vouchers paired with the nearest branch of
// their merchant, closest first. Vouchers whose merchant cannot be resolved
// or has no branches are skipped. Equal distances keep catalog order.
func NearbyDeals(q Query, catalog []models.Voucher, dir BranchDirectory, aliases *AliasMap) []models.NearbyDeal {
	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	deals := make([]models.NearbyDeal, 0)
	for _, v := range catalog {
		if !v.EligibleAt(q.Now) {
			continue
		}
		businessID, ok := aliases.Resolve(v.MerchantName)
		if !ok {
			continue
		}
		branch, distance, ok := nearest(q.Origin, dir[businessID])
		if !ok {
			continue
		}
		if q.RadiusKm > 0 && distance > q.RadiusKm {
			continue
		}
		open := OpenNow(branch, q.Now)
		if q.OpenNowOnly && !open {
			continue
		}
		deals = append(deals, models.NearbyDeal{
			Voucher:    v,
			Branch:     branch,
			DistanceKm: distance,
			OpenNow:    open,
		})
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].DistanceKm < deals[j].DistanceKm
	})

	if len(deals) > limit {
		deals = deals[:limit]
	}
	return deals
}

func nearest(origin geo.Point, branches []models.Branch) (models.Branch, float64, bool) {
	var (
		best     models.Branch
		bestDist float64
		found    bool
	)
	for _, b := range branches {
		d := geo.DistanceKm(origin.Lat, origin.Lng, b.Lat, b.Lng)
		if !found || d < bestDist {
			best, bestDist, found = b, d, true
		}
	}
	return best, bestDist, found
}

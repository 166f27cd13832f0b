package models

// Business is a merchant in the business directory.
type Business struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameHe string `json:"nameHe,omitempty"`
}

// Branch is one physical location of a business. Hours are whole hours in
// [0,23]; when either is nil the branch is treated as always open.
type Branch struct {
	ID         string  `json:"id"`
	BusinessID string  `json:"businessId"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	OpenHour   *int    `json:"openHour,omitempty"`
	CloseHour  *int    `json:"closeHour,omitempty"`
}

type NearbyDeal struct {
	Voucher    Voucher `json:"voucher"`
	Branch     Branch  `json:"branch"`
	DistanceKm float64 `json:"distanceKm"`
	OpenNow    bool    `json:"openNow"`
}

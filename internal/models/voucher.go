// internal/models/voucher.go
package models

import "time"

// Category is the closed set of voucher categories.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryTravel        Category = "travel"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTech          Category = "tech"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryFood,
	CategoryShopping,
	CategoryEntertainment,
	CategoryTravel,
	CategoryHealth,
	CategoryEducation,
	CategoryTech,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Voucher struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	TitleHe         string    `json:"titleHe,omitempty"`
	MerchantName    string    `json:"merchantName"`
	Category        Category  `json:"category"`
	OriginalPrice   float64   `json:"originalPrice"`
	DiscountedPrice float64   `json:"discountedPrice"`
	DiscountPercent float64   `json:"discountPercent"`
	ValidUntil      time.Time `json:"validUntil"`
	InStock         bool      `json:"inStock"`
	Popular         bool      `json:"popular"`
}

// EligibleAt reports whether the voucher can be recommended at now. A voucher
// without a usable expiry is never eligible.
func (v Voucher) EligibleAt(now time.Time) bool {
	return v.InStock && !v.ValidUntil.IsZero() && v.ValidUntil.After(now)
}

type PurchaseStatus string

const (
	PurchaseStatusActive  PurchaseStatus = "active"
	PurchaseStatusUsed    PurchaseStatus = "used"
	PurchaseStatusExpired PurchaseStatus = "expired"
)

// UserVoucher is one purchase record joined with its voucher.
type UserVoucher struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Voucher     Voucher        `json:"voucher"`
	Status      PurchaseStatus `json:"status"`
	PurchasedAt time.Time      `json:"purchasedAt"`
}

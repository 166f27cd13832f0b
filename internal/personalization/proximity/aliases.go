package proximity

import (
	"strings"

	"rewards-workers/internal/models"
)

// DefaultOverrides maps voucher merchant names that differ from the business
// directory's display names to their business id.
func DefaultOverrides() map[string]string {
	return map[string]string{
		"Aroma":       "aroma-espresso-bar",
		"Golda":       "golda-ice-cream",
		"Super-Pharm": "super-pharm",
		"Yes Planet":  "yes-planet-cinemas",
		"KSP":         "ksp-computers",
		"Fox":         "fox-fashion",
	}
}

// AliasMap resolves a voucher's merchant name to a business id.
type AliasMap struct {
	byName    map[string]string
	overrides map[string]string
}

// NewAliasMap indexes businesses by their English and Hebrew display names.
// Overrides are consulted first.
func NewAliasMap(businesses []models.Business, overrides map[string]string) *AliasMap {
	m := &AliasMap{
		byName:    make(map[string]string, len(businesses)*2),
		overrides: make(map[string]string, len(overrides)),
	}
	for _, b := range businesses {
		if name := strings.TrimSpace(b.Name); name != "" {
			m.byName[name] = b.ID
		}
		if name := strings.TrimSpace(b.NameHe); name != "" {
			m.byName[name] = b.ID
		}
	}
	for name, id := range overrides {
		m.overrides[strings.TrimSpace(name)] = id
	}
	return m
}

// Resolve returns the business id for merchantName. Matching is exact apart
// from surrounding whitespace.
func (m *AliasMap) Resolve(merchantName string) (string, bool) {
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(merchantName)
	if id, ok := m.overrides[name]; ok {
		return id, true
	}
	id, ok := m.byName[name]
	return id, ok
}

// Len returns the number of distinct names the map can resolve.
func (m *AliasMap) Len() int {
	if m == nil {
		return 0
	}
	n := len(m.overrides)
	for name := range m.byName {
		if _, dup := m.overrides[name]; !dup {
			n++
		}
	}
	return n
}

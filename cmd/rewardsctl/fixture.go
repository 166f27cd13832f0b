package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/signals"
	"rewards-workers/internal/repository"
	"rewards-workers/internal/workers/personalization"
)

// fixture is the on-disk input for rank and nearby. It also serves as the
// user, purchase and directory stores so the handlers run unchanged.
type fixture struct {
	Catalog       []personalization.CatalogRecord `json:"catalog"`
	Users         []models.User                   `json:"users"`
	Purchases     []models.UserVoucher            `json:"purchases"`
	Enrichment    []models.EnrichmentData         `json:"enrichment"`
	Questionnaire map[string]string               `json:"questionnaire"`
	Businesses    []models.Business               `json:"businesses"`
	Branches      []models.Branch                 `json:"branches"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	// A fixture always supplies the catalog inline, even when it is empty.
	if fx.Catalog == nil {
		fx.Catalog = []personalization.CatalogRecord{}
	}
	return &fx, nil
}

func (f *fixture) GetUser(_ context.Context, userID string) (*models.User, error) {
	for i := range f.Users {
		if f.Users[i].ID == userID {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fixture) PurchaseHistory(_ context.Context, userID string) ([]models.UserVoucher, error) {
	var history []models.UserVoucher
	for _, p := range f.Purchases {
		if p.UserID == userID {
			history = append(history, p)
		}
	}
	return history, nil
}

func (f *fixture) Directory(context.Context) ([]models.Business, []models.Branch, error) {
	return f.Businesses, f.Branches, nil
}

func (f *fixture) enrichment() signals.MemoryEnrichment {
	m := make(signals.MemoryEnrichment, len(f.Enrichment))
	for _, e := range f.Enrichment {
		m[e.UserID] = e
	}
	return m
}

// clockAt pins the clock to an RFC 3339 instant; empty means wall time.
func clockAt(at string) (personalization.Clock, error) {
	if at == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("--at must be RFC 3339: %w", err)
	}
	return func() time.Time { return t }, nil
}

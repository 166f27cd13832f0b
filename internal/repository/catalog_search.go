package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"rewards-workers/internal/models"
)

const maxCatalogHits = 1000

// CatalogSearch reads the voucher catalog from an Elasticsearch index whose
// documents use the Voucher JSON shape.
type CatalogSearch struct {
	es    *elasticsearch.Client
	index string
}

func NewCatalogSearch(es *elasticsearch.Client, index string) *CatalogSearch {
	return &CatalogSearch{es: es, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ActiveVouchers returns in-stock vouchers that expire after now. Documents
// that do not decode are skipped.
func (s *CatalogSearch) ActiveVouchers(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	query := map[string]interface{}{
		"size": maxCatalogHits,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"inStock": true}},
					map[string]interface{}{"range": map[string]interface{}{
						"validUntil": map[string]interface{}{"gt": now.UTC().Format(time.RFC3339)},
					}},
				},
			},
		},
		"sort": []interface{}{map[string]interface{}{"_doc": "asc"}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.Status())
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	vouchers := make([]models.Voucher, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		var v models.Voucher
		if err := json.Unmarshal(hit.Source, &v); err != nil {
			continue
		}
		if v.ID == "" {
			v.ID = hit.ID
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}

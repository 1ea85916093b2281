package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/dkotelnikov/sweet-shop/internal/models"
)

// ESQuery translates the filter into an elasticsearch bool query with the
// same semantics as ApplyGorm: substring match on name or description,
// exact category, inclusive price bounds.
func (f Filter) ESQuery() map[string]interface{} {
	boolQ := map[string]interface{}{}

	if f.Query != "" {
		pattern := "*" + f.Query + "*"
		boolQ["must"] = []interface{}{
			map[string]interface{}{
				"bool": map[string]interface{}{
					"should": []interface{}{
						map[string]interface{}{
							"wildcard": map[string]interface{}{
								"name": map[string]interface{}{"value": pattern, "case_insensitive": true},
							},
						},
						map[string]interface{}{
							"wildcard": map[string]interface{}{
								"description": map[string]interface{}{"value": pattern, "case_insensitive": true},
							},
						},
					},
					"minimum_should_match": 1,
				},
			},
		}
	}

	var filters []interface{}
	if f.Category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category.keyword": f.Category},
		})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rng := map[string]interface{}{}
		if f.MinPrice != nil {
			rng["gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rng["lte"] = *f.MaxPrice
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"price": rng},
		})
	}
	if len(filters) > 0 {
		boolQ["filter"] = filters
	}

	if len(boolQ) == 0 {
		return map[string]interface{}{"query": map[string]interface{}{"match_all": map[string]interface{}{}}}
	}
	return map[string]interface{}{"query": map[string]interface{}{"bool": boolQ}}
}

// SearchES runs the filter against an elasticsearch index holding sweets.
func SearchES(ctx context.Context, es *elasticsearch.Client, index string, f Filter) ([]models.Sweet, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(f.ESQuery()); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Sweet `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	sweets := make([]models.Sweet, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		sweets[i] = hit.Source
	}
	return sweets, nil
}

// internal/flows/library/search-library/queries.go
package searchlibrary

import (
	"bytes"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var searchFields = []string{"title^3", "description", "prompt", "tags^2"}

func buildSearchQuery(input *Input, size int) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  input.Query,
					"fields": searchFields,
					"type":   "best_fields",
				},
			},
		},
	}

	if input.Category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{
					"category": map[string]interface{}{
						"value":            input.Category,
						"case_insensitive": true,
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func newSearchRequest(index string, input *Input, size int) (*esapi.SearchRequest, error) {
	body, err := json.Marshal(buildSearchQuery(input, size))
	if err != nil {
		return nil, err
	}
	return &esapi.SearchRequest{
		Index:          []string{index},
		Body:           bytes.NewReader(body),
		TrackTotalHits: true,
	}, nil
}

// indexMapping keeps category a keyword so the term filter matches exactly.
var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "keyword"},
			"title":       map[string]interface{}{"type": "text"},
			"category":    map[string]interface{}{"type": "keyword"},
			"description": map[string]interface{}{"type": "text"},
			"prompt":      map[string]interface{}{"type": "text"},
			"tags":        map[string]interface{}{"type": "text"},
		},
	},
}

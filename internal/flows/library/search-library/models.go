// internal/flows/library/search-library/models.go
package searchlibrary

import "promptcraft-studio/internal/models"

type Input struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output = models.LibrarySearchResult

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string              `json:"_id"`
			Source models.LibraryEntry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// internal/models/library.go
package models

type LibraryEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Prompt      string   `json:"prompt"`
	Tags        []string `json:"tags"`
}

const (
	SearchSourceElasticsearch = "elasticsearch"
	SearchSourceMemory        = "memory"
)

type LibrarySearchResult struct {
	Entries []LibraryEntry `json:"entries"`
	Total   int            `json:"total"`
	Source  string         `json:"source"`
}

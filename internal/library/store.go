// Package library serves the prompt library from memory or Postgres.
package library

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"

	"promptcraft-studio/internal/models"
)

var (
	ErrEntryNotFound = errors.New("LIBRARY_ENTRY_NOT_FOUND")
	ErrQueryFailed   = errors.New("LIBRARY_QUERY_FAILED")
)

// Store reads library entries. An empty category means all categories.
type Store interface {
	List(ctx context.Context, category string) ([]models.LibraryEntry, error)
	Get(ctx context.Context, id string) (models.LibraryEntry, error)
}

// MemoryStore serves a fixed slice of entries.
type MemoryStore struct {
	entries []models.LibraryEntry
}

func NewMemoryStore(entries []models.LibraryEntry) *MemoryStore {
	return &MemoryStore{entries: entries}
}

func (s *MemoryStore) List(_ context.Context, category string) ([]models.LibraryEntry, error) {
	out := make([]models.LibraryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if category == "" || strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.LibraryEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.LibraryEntry{}, ErrEntryNotFound
}

// Rank orders entries by how many query tokens they share with the
// title, description, prompt and tags. Entries with no overlap are dropped.
// Title and tag hits weigh more, matching the Elasticsearch field boosts.
func Rank(entries []models.LibraryEntry, query string) []models.LibraryEntry {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return entries
	}

	type scored struct {
		entry models.LibraryEntry
		score int
		pos   int
	}

	var hits []scored
	for i, e := range entries {
		title := tokenSet(e.Title)
		tags := tokenSet(strings.Join(e.Tags, " "))
		body := tokenSet(e.Description + " " + e.Prompt)

		score := 0
		for _, t := range terms {
			if title[t] {
				score += 3
			}
			if tags[t] {
				score += 2
			}
			if body[t] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{entry: e, score: score, pos: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]models.LibraryEntry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// Tokenize lowercases s and splits it on anything that is not a letter or digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokenize(s) {
		set[t] = true
	}
	return set
}

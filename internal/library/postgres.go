package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"promptcraft-studio/internal/models"
)

const (
	listAllQuery = `
		SELECT id, title, category, description, prompt, tags
		FROM prompt_library
		ORDER BY sort_order, id`

	listByCategoryQuery = `
		SELECT id, title, category, description, prompt, tags
		FROM prompt_library
		WHERE lower(category) = lower($1)
		ORDER BY sort_order, id`

	getQuery = `
		SELECT id, title, category, description, prompt, tags
		FROM prompt_library
		WHERE id = $1`
)

// PostgresStore reads the prompt_library table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, category string) ([]models.LibraryEntry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category == "" {
		rows, err = s.db.QueryContext(ctx, listAllQuery)
	} else {
		rows, err = s.db.QueryContext(ctx, listByCategoryQuery, category)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	entries := []models.LibraryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	return entries, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.LibraryEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LibraryEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return models.LibraryEntry{}, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.LibraryEntry, error) {
	var e models.LibraryEntry
	var tags []string
	if err := row.Scan(&e.ID, &e.Title, &e.Category, &e.Description, &e.Prompt, pq.Array(&tags)); err != nil {
		return models.LibraryEntry{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	e.Tags = tags
	return e, nil
}

// Package journal keeps a durable, append-only log of recipe mutations in
// SQLite. The recipes file holds current state; the journal answers "what
// changed, when, and by which call".
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Journal is an append-only mutation log backed by SQLite.
// Uses WAL mode so history reads do not block writes.
type Journal struct {
	db *sql.DB
}

// Entry is one recorded mutation.
type Entry struct {
	Seq        int64     `json:"seq"`
	Token      string    `json:"token"`
	Action     string    `json:"action"`
	RecipeName string    `json:"recipe_name"`
	Payload    string    `json:"payload,omitempty"`
	AppliedAt  time.Time `json:"applied_at"`
}

// Open creates or opens the journal database at the given path.
// Applies pragmas and the schema; safe to call on an existing file.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append records one mutation. The payload is free-form JSON (the saved
// recipe body for saves, empty for deletes).
func (j *Journal) Append(ctx context.Context, token, action, recipeName, payload string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO mutations (token, action, recipe_name, payload, applied_at)
		VALUES (?, ?, ?, ?, ?)
	`, token, action, recipeName, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// Recent returns the newest n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, token, action, recipe_name, payload, applied_at
		FROM mutations
		ORDER BY seq DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForRecipe returns every entry touching one recipe, oldest first.
func (j *Journal) ForRecipe(ctx context.Context, recipeName string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, token, action, recipe_name, payload, applied_at
		FROM mutations
		WHERE recipe_name = ?
		ORDER BY seq ASC
	`, recipeName)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var appliedAt string
		if err := rows.Scan(&e.Seq, &e.Token, &e.Action, &e.RecipeName, &e.Payload, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("parse journal timestamp %q: %w", appliedAt, err)
		}
		e.AppliedAt = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/shelf/internal/errors"
)

// SavedEntry is one saved prompt row.
type SavedEntry struct {
	PromptID int   `json:"prompt_id"`
	SavedAt  int64 `json:"saved_at"` // unix seconds
}

// ProfileSummary reports how many prompts a profile has saved.
type ProfileSummary struct {
	Profile string `json:"profile"`
	Count   int    `json:"count"`
}

// SavedStore persists the saved set of a single profile.
// It implements saved.Persister.
type SavedStore struct {
	DB      *sql.DB
	Profile string

	// Now overrides the clock for tests.
	Now func() time.Time
}

// Load returns the saved prompt ids for the profile in ascending order.
func (s *SavedStore) Load(ctx context.Context) ([]int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.PromptID
	}
	return ids, nil
}

// Entries returns the saved rows for the profile in ascending id order.
func (s *SavedStore) Entries(ctx context.Context) ([]SavedEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT prompt_id, saved_at FROM saved_prompts WHERE profile = ? ORDER BY prompt_id`,
		s.Profile)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := []SavedEntry{}
	for rows.Next() {
		var e SavedEntry
		if err := rows.Scan(&e.PromptID, &e.SavedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

// Save makes the stored set equal ids. Rows that survive keep their
// original saved_at; new rows get the current time. The update is atomic.
func (s *SavedStore) Save(ctx context.Context, ids []int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	existing := make(map[int]bool)
	rows, err := tx.QueryContext(ctx, `SELECT prompt_id FROM saved_prompts WHERE profile = ?`, s.Profile)
	if err != nil {
		return errors.NewInternal(err)
	}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return errors.NewInternal(err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.NewInternal(err)
	}

	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	now := s.now().Unix()
	for id := range want {
		if existing[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO saved_prompts (profile, prompt_id, saved_at) VALUES (?, ?, ?)`,
			s.Profile, id, now); err != nil {
			return errors.NewInternal(err)
		}
	}
	for id := range existing {
		if want[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM saved_prompts WHERE profile = ? AND prompt_id = ?`,
			s.Profile, id); err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func (s *SavedStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListProfiles returns every profile with at least one saved prompt.
func ListProfiles(ctx context.Context, db *sql.DB) ([]ProfileSummary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT profile, COUNT(*) FROM saved_prompts GROUP BY profile ORDER BY profile`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []ProfileSummary{}
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.Profile, &p.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

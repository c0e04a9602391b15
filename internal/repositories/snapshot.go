package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// SnapshotRepository stores the catalog snapshot captured at the end of a run.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the snapshot stored for runID in a single transaction.
func (r *SnapshotRepository) Save(runID string, snap models.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check run: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, runID)
	}

	for _, table := range []string{"run_playlists", "run_songs", "run_users"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, u := range snap.Users {
		if _, err := tx.Exec("INSERT INTO run_users (run_id, id, name) VALUES (?, ?, ?)", runID, u.ID, u.Name); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
		}
	}

	for _, s := range snap.Songs {
		_, err := tx.Exec("INSERT INTO run_songs (run_id, id, artist, title) VALUES (?, ?, ?, ?)", runID, s.ID, s.Artist, s.Title)
		if err != nil {
			return fmt.Errorf("failed to insert song %s: %w", s.ID, err)
		}
	}

	for _, p := range snap.Playlists {
		if _, err := tx.Exec("INSERT INTO run_playlists (run_id, id, user_id) VALUES (?, ?, ?)", runID, p.ID, p.UserID); err != nil {
			return fmt.Errorf("failed to insert playlist %s: %w", p.ID, err)
		}

		for position, songID := range p.SongIDs {
			_, err := tx.Exec(
				"INSERT INTO run_playlist_songs (run_id, playlist_id, position, song_id) VALUES (?, ?, ?, ?)",
				runID, p.ID, position, songID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert song %s into playlist %s: %w", songID, p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// Load returns the snapshot stored for runID, each collection ordered by id.
//
// A run saved without a snapshot loads as an empty one.
func (r *SnapshotRepository) Load(runID string) (models.Snapshot, error) {
	snap := models.Snapshot{
		Users:     []models.User{},
		Songs:     []models.Song{},
		Playlists: []models.Playlist{},
	}

	var exists int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists); err != nil {
		return snap, fmt.Errorf("failed to check run: %w", err)
	}
	if exists == 0 {
		return snap, fmt.Errorf("%w: %s", shared.ErrRunNotFound, runID)
	}

	err := r.each("SELECT id, name FROM run_users WHERE run_id = ? ORDER BY id", runID, func(row scanner) error {
		var u models.User
		if err := row.Scan(&u.ID, &u.Name); err != nil {
			return err
		}
		snap.Users = append(snap.Users, u)
		return nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to load users: %w", err)
	}

	err = r.each("SELECT id, artist, title FROM run_songs WHERE run_id = ? ORDER BY id", runID, func(row scanner) error {
		var s models.Song
		if err := row.Scan(&s.ID, &s.Artist, &s.Title); err != nil {
			return err
		}
		snap.Songs = append(snap.Songs, s)
		return nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to load songs: %w", err)
	}

	positions := map[string]int{}
	err = r.each("SELECT id, user_id FROM run_playlists WHERE run_id = ? ORDER BY id", runID, func(row scanner) error {
		p := models.Playlist{SongIDs: []string{}}
		if err := row.Scan(&p.ID, &p.UserID); err != nil {
			return err
		}
		positions[p.ID] = len(snap.Playlists)
		snap.Playlists = append(snap.Playlists, p)
		return nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to load playlists: %w", err)
	}

	query := "SELECT playlist_id, song_id FROM run_playlist_songs WHERE run_id = ? ORDER BY playlist_id, position"
	err = r.each(query, runID, func(row scanner) error {
		var playlistID, songID string
		if err := row.Scan(&playlistID, &songID); err != nil {
			return err
		}
		i := positions[playlistID]
		snap.Playlists[i].SongIDs = append(snap.Playlists[i].SongIDs, songID)
		return nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to load playlist songs: %w", err)
	}

	return snap, nil
}

// each runs query and calls fn for every row. Rows are closed before it returns.
func (r *SnapshotRepository) each(query, runID string, fn func(scanner) error) error {
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

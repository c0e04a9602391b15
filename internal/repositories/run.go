package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

var _ models.Repository[*models.Run] = (*RunRepository)(nil)

const runColumns = "id, sequence, input_path, changes_path, applied, created_at, updated_at"

// RunRepository implements models.Repository[*models.Run] for run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run with a generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, input_path, changes_path, applied, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.InputPath(),
		run.ChangesPath(),
		run.Applied(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID. Unknown ids return [shared.ErrRunNotFound].
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE id = ?"

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return run, err
}

// Update stores the run's applied count and changes path
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET changes_path = ?, applied = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, run.ChangesPath(), run.Applied(), now, run.ID())
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return requireRow(result, run.ID())
}

// Delete removes a run. Its snapshot rows go with it through ON DELETE CASCADE.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return requireRow(result, id)
}

// List retrieves runs ordered by sequence.
//
// Supported criteria:
//   - "input_path" (string): only runs loaded from this file
//   - "latest" (bool): newest first
//   - "limit" (int): at most this many runs
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE 1 = 1"
	args := []any{}

	if inputPath, ok := criteria["input_path"].(string); ok && inputPath != "" {
		query += " AND input_path = ?"
		args = append(args, inputPath)
	}

	if latest, ok := criteria["latest"].(bool); ok && latest {
		query += " ORDER BY sequence DESC"
	} else {
		query += " ORDER BY sequence ASC"
	}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanRun reads one row selected with runColumns. [sql.ErrNoRows] is returned unwrapped.
func scanRun(row scanner) (*models.Run, error) {
	var (
		id          string
		sequence    int
		inputPath   string
		changesPath string
		applied     int
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &sequence, &inputPath, &changesPath, &applied, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewRun(sequence, inputPath, changesPath, applied)
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	return run, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

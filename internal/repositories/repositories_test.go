package repositories

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createRun(t *testing.T, repo *RunRepository, input string) *models.Run {
	t.Helper()

	run := models.NewRun(0, input, "changes.json", 3)
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	return run
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.User{{ID: "1", Name: "Albin Jaye"}, {ID: "2", Name: "Dipika Crescentia"}},
		Songs: []models.Song{
			{ID: "1", Artist: "Camila Cabello", Title: "Never Be the Same"},
			{ID: "10", Artist: "Sigur Rós", Title: "Hoppípolla"},
			{ID: "2", Artist: "Zedd", Title: "The Middle"},
		},
		Playlists: []models.Playlist{
			{ID: "1", UserID: "2", SongIDs: []string{"10", "1", "2"}},
			{ID: "3", UserID: "1", SongIDs: []string{"2"}},
		},
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "runs")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}

func TestRunRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := createRun(t, repo, "input.json")

		if !shared.IsUUID(run.ID()) {
			t.Errorf("expected a UUID id, got %q", run.ID())
		}
		if run.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", run.Sequence())
		}
	})

	t.Run("Create rejects missing input path", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		if err := repo.Create(models.NewRun(0, "", "", 0)); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := createRun(t, repo, "input.json")

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if retrieved.Summary().InputPath != "input.json" || retrieved.Applied() != 3 {
			t.Errorf("unexpected run %+v", retrieved.Summary())
		}
		if retrieved.ChangesPath() != "changes.json" {
			t.Errorf("expected changes path to round trip, got %q", retrieved.ChangesPath())
		}
	})

	t.Run("Get unknown run", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := createRun(t, repo, "input.json")

		run.SetApplied(1)
		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		retrieved, _ := repo.Get(run.ID())
		if retrieved.Applied() != 1 {
			t.Errorf("expected applied 1, got %d", retrieved.Applied())
		}
	})

	t.Run("Update unknown run", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := models.NewRun(1, "input.json", "", 0)
		run.SetID("nonexistent-id")

		if err := repo.Update(run); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := createRun(t, repo, "input.json")

		if err := repo.Delete(run.ID()); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}
		if _, err := repo.Get(run.ID()); err == nil {
			t.Error("expected error when getting deleted run")
		}
		if err := repo.Delete(run.ID()); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		first := createRun(t, repo, "a.json")
		createRun(t, repo, "b.json")
		last := createRun(t, repo, "a.json")

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(all) != 3 || all[0].ID() != first.ID() {
			t.Fatalf("expected 3 runs in sequence order, got %d", len(all))
		}

		filtered, _ := repo.List(map[string]any{"input_path": "a.json"})
		if len(filtered) != 2 {
			t.Errorf("expected 2 runs for a.json, got %d", len(filtered))
		}

		latest, _ := repo.List(map[string]any{"latest": true, "limit": 1})
		if len(latest) != 1 || latest[0].ID() != last.ID() {
			t.Errorf("expected newest run only")
		}
	})

	t.Run("List on empty table", func(t *testing.T) {
		runs, err := NewRunRepository(setupTestDB(t)).List(nil)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if runs == nil || len(runs) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", runs)
		}
	})
}

func TestSnapshotRepository(t *testing.T) {
	t.Run("Save and Load round trip", func(t *testing.T) {
		db := setupTestDB(t)
		run := createRun(t, NewRunRepository(db), "input.json")
		repo := NewSnapshotRepository(db)

		if err := repo.Save(run.ID(), sampleSnapshot()); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		got, err := repo.Load(run.ID())
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if !reflect.DeepEqual(got, sampleSnapshot()) {
			t.Errorf("snapshot mismatch:\n got %+v\nwant %+v", got, sampleSnapshot())
		}
	})

	t.Run("Save replaces an earlier snapshot", func(t *testing.T) {
		db := setupTestDB(t)
		run := createRun(t, NewRunRepository(db), "input.json")
		repo := NewSnapshotRepository(db)

		if err := repo.Save(run.ID(), sampleSnapshot()); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		smaller := models.Snapshot{Users: []models.User{{ID: "9", Name: "Solo"}}}
		if err := repo.Save(run.ID(), smaller); err != nil {
			t.Fatalf("failed to save second snapshot: %v", err)
		}

		got, _ := repo.Load(run.ID())
		if len(got.Users) != 1 || len(got.Songs) != 0 || len(got.Playlists) != 0 {
			t.Errorf("expected only the second snapshot, got %+v", got)
		}
	})

	t.Run("Save for unknown run", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))
		if err := repo.Save("nonexistent-id", sampleSnapshot()); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Save is atomic", func(t *testing.T) {
		db := setupTestDB(t)
		run := createRun(t, NewRunRepository(db), "input.json")
		repo := NewSnapshotRepository(db)

		broken := sampleSnapshot()
		broken.Users = append(broken.Users, models.User{ID: "1", Name: "duplicate"})

		if err := repo.Save(run.ID(), broken); err == nil {
			t.Fatal("expected primary key violation")
		}

		got, _ := repo.Load(run.ID())
		if len(got.Users) != 0 {
			t.Errorf("expected no rows after a failed save, got %d users", len(got.Users))
		}
	})

	t.Run("Load for unknown run", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))
		if _, err := repo.Load("nonexistent-id"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("deleting a run removes its snapshot", func(t *testing.T) {
		db := setupTestDB(t)
		runs := NewRunRepository(db)
		run := createRun(t, runs, "input.json")

		if err := NewSnapshotRepository(db).Save(run.ID(), sampleSnapshot()); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}
		if err := runs.Delete(run.ID()); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM run_playlist_songs").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected cascade to remove playlist songs, %d left", count)
		}
	})
}

package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration version %d missing up or down SQL", m.Version)
			}
			if m.Name == "" {
				t.Errorf("migration version %d has no name", m.Version)
			}
		}
	})

	t.Run("RunMigrations and Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		latest := migrations[len(migrations)-1].Version

		version, err := CurrentVersion(db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if version != latest {
			t.Errorf("expected version %d, got %d", latest, version)
		}

		for _, table := range []string{"runs", "run_users", "run_songs", "run_playlists", "run_playlist_songs"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		version, err = CurrentVersion(db)
		if err != nil {
			t.Fatalf("failed to read version after rollback: %v", err)
		}
		if version >= latest {
			t.Errorf("expected version to drop below %d after rollback, got %d", latest, version)
		}

		if _, err := db.Exec("SELECT 1 FROM run_playlist_songs LIMIT 1"); err == nil {
			t.Error("run_playlist_songs should be dropped after rollback")
		}
	})

	t.Run("Rollback with nothing applied", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error rolling back an empty database")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})
}

func TestSplitStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (id TEXT); -- trailing
CREATE TABLE b (id TEXT);
`
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("unexpected first statement %q", got[0])
	}
}

//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/qnahub/backend/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration tests")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("ping db: %v", err)
	}

	migrator := database.NewSQLMigrator(db, database.MigrationsFS(), database.MigrationsPath, slog.Default())
	if err := migrator.Up(context.Background()); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	cleanupTables(t, db)

	return db
}

func cleanupTables(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		"TRUNCATE votes CASCADE",
		"TRUNCATE answers CASCADE",
		"TRUNCATE representative_question_sources CASCADE",
		"TRUNCATE representative_questions CASCADE",
		"TRUNCATE raw_questions CASCADE",
		"TRUNCATE community_posts CASCADE",
		"TRUNCATE users CASCADE",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("cleanup %s: %v", stmt, err)
		}
	}
}

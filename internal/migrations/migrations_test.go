package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := embedMigrations.ReadDir(".")
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}

	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_catalog_items.sql",
		"00003_create_orders.sql",
		"00004_create_order_status_history.sql",
		"00005_create_bookings.sql",
	}, names)
}

func TestMigrationsHaveUpAndDown(t *testing.T) {
	err := fs.WalkDir(embedMigrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := embedMigrations.ReadFile(path)
		if err != nil {
			return err
		}
		assert.Contains(t, string(data), "-- +goose Up", path)
		assert.Contains(t, string(data), "-- +goose Down", path)
		return nil
	})
	require.NoError(t, err)
}

func TestRunWithInvalidDB(t *testing.T) {
	db, err := sql.Open("pgx", "invalid://connection")
	if err != nil {
		t.Skipf("Cannot create test DB connection: %v", err)
	}
	defer db.Close()

	assert.Error(t, Run(context.Background(), db))
}

func TestVersionWithInvalidDB(t *testing.T) {
	db, err := sql.Open("pgx", "invalid://connection")
	if err != nil {
		t.Skipf("Cannot create test DB connection: %v", err)
	}
	defer db.Close()

	_, err = Version(db)
	assert.Error(t, err)
}

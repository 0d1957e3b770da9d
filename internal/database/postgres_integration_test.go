package database

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// postgresTestConfig returns a PostgreSQL config when TILEGEN_TEST_POSTGRES is set.
//
//	TILEGEN_TEST_POSTGRES_HOST (default: localhost)
//	TILEGEN_TEST_POSTGRES_PORT (default: 5432)
//	TILEGEN_TEST_POSTGRES_USER (default: tilegen)
//	TILEGEN_TEST_POSTGRES_PASSWORD (default: tilegen)
//	TILEGEN_TEST_POSTGRES_DATABASE (default: tilegen_test)
func postgresTestConfig(t *testing.T) Config {
	if os.Getenv("TILEGEN_TEST_POSTGRES") == "" {
		t.Skip("Skipping PostgreSQL test: TILEGEN_TEST_POSTGRES not set")
	}

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	pg := DefaultPostgresConfig()
	pg.Host = env("TILEGEN_TEST_POSTGRES_HOST", "localhost")
	if port, err := strconv.Atoi(env("TILEGEN_TEST_POSTGRES_PORT", "5432")); err == nil {
		pg.Port = port
	}
	pg.User = env("TILEGEN_TEST_POSTGRES_USER", "tilegen")
	pg.Password = env("TILEGEN_TEST_POSTGRES_PASSWORD", "tilegen")
	pg.Database = env("TILEGEN_TEST_POSTGRES_DATABASE", "tilegen_test")

	return Config{Driver: string(DialectPostgres), Postgres: pg}
}

func TestPostgres_RunRoundTrip(t *testing.T) {
	db, err := OpenWithConfig(postgresTestConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.db.Exec("DELETE FROM runs")
		db.Close()
	})
	_, err = db.db.Exec("DELETE FROM runs")
	require.NoError(t, err)

	l := sampleLayout(18446744073709551615)
	id, err := db.SaveRun(l)
	require.NoError(t, err)

	got, err := db.GetRun(id)
	require.NoError(t, err)
	got.GeneratedAt = l.GeneratedAt
	require.Equal(t, l, got)

	_, err = db.SaveRun(l)
	require.ErrorIs(t, err, ErrDuplicateRun)
}

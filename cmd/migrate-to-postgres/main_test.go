package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/tilegen/internal/database"
	"github.com/lawnchairsociety/tilegen/internal/layout"
)

func openDB(t *testing.T, name string) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func run(seed uint64) *layout.Layout {
	return &layout.Layout{
		Seed:        seed,
		Size:        1,
		Strategy:    "ordered",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Stats:       layout.Stats{Iterations: 1, Placed: 1},
		Tiles:       []layout.Tile{{Name: "t", Model: "t.gltf", Weight: 1, Edges: [4]string{"a", "a", "a", "a"}}},
		Placements:  []layout.Placement{{X: 0, Y: 0, Tile: 0}},
	}
}

// SQLite stands in for PostgreSQL here; the copy only uses the database API.
func TestCopyRuns(t *testing.T) {
	src := openDB(t, "src.db")
	dst := openDB(t, "dst.db")

	for seed := uint64(1); seed <= 3; seed++ {
		_, err := src.SaveRun(run(seed))
		require.NoError(t, err)
	}
	_, err := dst.SaveRun(run(2))
	require.NoError(t, err)

	copied, skipped, err := copyRuns(src, dst, false)
	require.NoError(t, err)
	require.Equal(t, 2, copied)
	require.Equal(t, 1, skipped)

	runs, err := dst.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, uint64(3), runs[0].Seed)
}

func TestCopyRuns_DryRun(t *testing.T) {
	src := openDB(t, "src.db")
	dst := openDB(t, "dst.db")

	_, err := src.SaveRun(run(1))
	require.NoError(t, err)

	copied, skipped, err := copyRuns(src, dst, true)
	require.NoError(t, err)
	require.Equal(t, 1, copied)
	require.Zero(t, skipped)

	runs, err := dst.ListRuns(0)
	require.NoError(t, err)
	require.Empty(t, runs)
}

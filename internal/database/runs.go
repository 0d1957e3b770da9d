package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lawnchairsociety/tilegen/internal/layout"
	"github.com/lawnchairsociety/tilegen/internal/logger"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrDuplicateRun = errors.New("run with the same digest already stored")
)

// RunSummary is a stored run without its placements.
type RunSummary struct {
	ID          int64
	Digest      string
	Seed        uint64
	Size        int
	Strategy    string
	TileSet     string
	Stats       layout.Stats
	GeneratedAt time.Time
}

// SaveRun stores a layout and its placements in one transaction and returns the
// run ID. Storing a layout whose digest is already present returns
// ErrDuplicateRun together with the existing ID.
func (d *Database) SaveRun(l *layout.Layout) (int64, error) {
	digest := l.Digest()

	tiles, err := json.Marshal(l.Tiles)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tiles: %w", err)
	}
	cells := l.Contradictions
	if cells == nil {
		cells = []layout.Position{}
	}
	contradictions, err := json.Marshal(cells)
	if err != nil {
		return 0, fmt.Errorf("failed to encode contradictions: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := d.qb.BuildWithReturning(`INSERT INTO runs
		(digest, seed, size, strategy, tile_set, iterations, placed, contradictions, unresolved, tiles, contradiction_cells, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		digest, strconv.FormatUint(l.Seed, 10), l.Size, l.Strategy, l.TileSet,
		l.Stats.Iterations, l.Stats.Placed, l.Stats.Contradictions, l.Stats.Unresolved,
		string(tiles), string(contradictions), l.GeneratedAt.UTC(),
	}

	var id int64
	if d.dialect.SupportsLastInsertID() {
		var result sql.Result
		result, err = tx.Exec(query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	} else {
		err = tx.QueryRow(query, args...).Scan(&id)
	}
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			tx.Rollback()
			existing, findErr := d.FindRunByDigest(digest)
			if findErr != nil {
				return 0, findErr
			}
			return existing.ID, ErrDuplicateRun
		}
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(d.qb.Build(`INSERT INTO placements (run_id, seq, x, y, tile) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare placement insert: %w", err)
	}
	defer stmt.Close()

	for seq, p := range l.Placements {
		if _, err := stmt.Exec(id, seq, p.X, p.Y, p.Tile); err != nil {
			return 0, fmt.Errorf("failed to insert placement %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	logger.Info("Run stored", "id", id, "digest", digest, "placements", len(l.Placements))
	return id, nil
}

const runColumns = `id, digest, seed, size, strategy, tile_set, iterations, placed, contradictions, unresolved, generated_at`

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (*RunSummary, error) {
	var (
		s    RunSummary
		seed string
	)
	err := row.Scan(&s.ID, &s.Digest, &seed, &s.Size, &s.Strategy, &s.TileSet,
		&s.Stats.Iterations, &s.Stats.Placed, &s.Stats.Contradictions, &s.Stats.Unresolved,
		&s.GeneratedAt)
	if err != nil {
		return nil, err
	}
	if s.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("run %d has invalid seed %q: %w", s.ID, seed, err)
	}
	return &s, nil
}

// FindRunByDigest returns the summary of the run with the given digest.
func (d *Database) FindRunByDigest(digest string) (*RunSummary, error) {
	row := d.db.QueryRow(d.qb.Build(`SELECT `+runColumns+` FROM runs WHERE digest = ?`), digest)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return s, nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (d *Database) ListRuns(limit int) ([]*RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// GetRun loads a stored run back into a layout.
func (d *Database) GetRun(id int64) (*layout.Layout, error) {
	var (
		seed           string
		tiles          string
		contradictions string
		l              layout.Layout
	)
	err := d.db.QueryRow(d.qb.Build(`SELECT seed, size, strategy, tile_set, iterations, placed, contradictions, unresolved, tiles, contradiction_cells, generated_at
		FROM runs WHERE id = ?`), id).Scan(
		&seed, &l.Size, &l.Strategy, &l.TileSet,
		&l.Stats.Iterations, &l.Stats.Placed, &l.Stats.Contradictions, &l.Stats.Unresolved,
		&tiles, &contradictions, &l.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	if l.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("run %d has invalid seed %q: %w", id, seed, err)
	}
	l.GeneratedAt = l.GeneratedAt.UTC()
	if err := json.Unmarshal([]byte(tiles), &l.Tiles); err != nil {
		return nil, fmt.Errorf("run %d has invalid tiles: %w", id, err)
	}
	if err := json.Unmarshal([]byte(contradictions), &l.Contradictions); err != nil {
		return nil, fmt.Errorf("run %d has invalid contradictions: %w", id, err)
	}
	if len(l.Contradictions) == 0 {
		l.Contradictions = nil
	}

	rows, err := d.db.Query(d.qb.Build(`SELECT x, y, tile FROM placements WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query placements: %w", err)
	}
	defer rows.Close()

	l.Placements = []layout.Placement{}
	for rows.Next() {
		var p layout.Placement
		if err := rows.Scan(&p.X, &p.Y, &p.Tile); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		l.Placements = append(l.Placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &l, nil
}

// DeleteRun removes a run and its placements.
func (d *Database) DeleteRun(id int64) error {
	result, err := d.db.Exec(d.qb.Build(`DELETE FROM runs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// migrate-to-postgres copies stored runs from a SQLite database to PostgreSQL.
// Runs already present in PostgreSQL (same digest) are skipped.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/tilegen.db \
//	    -pg-host localhost \
//	    -pg-user tilegen \
//	    -pg-password tilegen \
//	    -pg-database tilegen
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/lawnchairsociety/tilegen/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/tilegen.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "tilegen", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "tilegen", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "tilegen", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be copied without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Run Migration")
	log.Println("==================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: string(database.DialectPostgres), Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	copied, skipped, err := copyRuns(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("==================================")
	log.Printf("Migration complete! Copied %d runs, skipped %d already present", copied, skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

// copyRuns copies every run in src to dst, oldest first so ids keep their order.
func copyRuns(src, dst *database.Database, dryRun bool) (copied, skipped int, err error) {
	runs, err := src.ListRuns(0)
	if err != nil {
		return 0, 0, err
	}

	for i := len(runs) - 1; i >= 0; i-- {
		summary := runs[i]

		if _, err := dst.FindRunByDigest(summary.Digest); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, database.ErrRunNotFound) {
			return copied, skipped, err
		}

		if dryRun {
			log.Printf("  Would copy run %d (%dx%d %s, seed %d)", summary.ID, summary.Size, summary.Size, summary.Strategy, summary.Seed)
			copied++
			continue
		}

		l, err := src.GetRun(summary.ID)
		if err != nil {
			return copied, skipped, err
		}
		newID, err := dst.SaveRun(l)
		if errors.Is(err, database.ErrDuplicateRun) {
			skipped++
			continue
		}
		if err != nil {
			return copied, skipped, err
		}
		log.Printf("  Copied run %d -> %d", summary.ID, newID)
		copied++
	}

	return copied, skipped, nil
}

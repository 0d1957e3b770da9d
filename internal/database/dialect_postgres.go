package database

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE raised when a digest is stored twice.
const uniqueViolation = "23505"

// PostgresDialect targets a shared run store reached through lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (d *PostgresDialect) SupportsLastInsertID() bool { return false }

func (d *PostgresDialect) ReturningClause(column string) string { return " RETURNING " + column }

func (d *PostgresDialect) InitStatements() []string { return nil }

func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (d *PostgresDialect) SerialPrimaryKey() string { return "BIGSERIAL PRIMARY KEY" }

// JSONColumn uses JSONB so stored tile tables can be queried server side.
func (d *PostgresDialect) JSONColumn() string { return "JSONB" }

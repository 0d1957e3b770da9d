package database

// Dialect covers what the run store needs to differ between SQLite and
// PostgreSQL. Queries in runs.go are written once with ? placeholders.
type Dialect interface {
	// DriverName is the database/sql driver registered for this dialect.
	DriverName() string

	// Placeholder renders bind parameter n (1-based).
	Placeholder(n int) string

	// SupportsLastInsertID is false when a new run id must come from RETURNING.
	SupportsLastInsertID() bool

	// ReturningClause is appended to an INSERT to read back column.
	ReturningClause(column string) string

	// InitStatements run once after the pool opens, before the schema is created.
	InitStatements() []string

	// IsDuplicateKeyError detects a unique violation, which SaveRun maps to ErrDuplicateRun.
	IsDuplicateKeyError(err error) bool

	// SerialPrimaryKey is the column definition for runs.id.
	SerialPrimaryKey() string

	// JSONColumn is the column type for the tile table and contradiction list.
	JSONColumn() string
}

// DialectType names a supported backend as it appears in the database config.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for a configured driver. Anything other than
// postgres falls back to the embedded SQLite store.
func NewDialect(dialectType DialectType) Dialect {
	if dialectType == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}

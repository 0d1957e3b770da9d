package database

import "strings"

// QueryBuilder renders the run store's ?-style queries for one dialect.
type QueryBuilder struct {
	dialect  Dialect
	numbered bool
}

// NewQueryBuilder creates a builder for dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect, numbered: dialect.Placeholder(1) != "?"}
}

// Build numbers the ? placeholders for dialects that need it. A ? inside a
// single-quoted literal is left alone.
//
//	SELECT x, y, tile FROM placements WHERE run_id = ? ORDER BY seq
//	SELECT x, y, tile FROM placements WHERE run_id = $1 ORDER BY seq
func (qb *QueryBuilder) Build(query string) string {
	if !qb.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteString(qb.dialect.Placeholder(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// BuildWithReturning is Build for an INSERT whose new id the caller scans.
func (qb *QueryBuilder) BuildWithReturning(query, column string) string {
	query = qb.Build(query)
	if qb.dialect.SupportsLastInsertID() {
		return query
	}
	return query + qb.dialect.ReturningClause(column)
}

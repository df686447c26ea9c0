// Package querybuilder renders Postgres statements with numbered ($n)
// placeholders. Identifiers are written verbatim; only values are bound.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// statement accumulates SQL text and the values bound to it.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *statement) bind(value any) string {
	s.args = append(s.args, value)
	return "$" + strconv.Itoa(len(s.args))
}

// expand replaces each '?' in expr with the next bound value. Marks beyond
// len(values) stay literal.
func (s *statement) expand(expr string, values []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(values) {
			s.write(s.bind(values[next]))
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *statement) where(conds []Condition) {
	for i, cond := range conds {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		cond(s)
	}
}

// Condition is one AND-ed predicate of a WHERE clause.
type Condition func(*statement)

func Eq(column string, value any) Condition {
	return func(s *statement) {
		s.write(column, " = ", s.bind(value))
	}
}

// In matches column against values. An empty list matches no rows.
func In(column string, values []any) Condition {
	return func(s *statement) {
		if len(values) == 0 {
			s.write("1=0")
			return
		}
		marks := make([]string, len(values))
		for i, v := range values {
			marks[i] = s.bind(v)
		}
		s.write(column, " IN (", strings.Join(marks, ", "), ")")
	}
}

func IsNull(column string) Condition {
	return func(s *statement) {
		s.write(column, " IS NULL")
	}
}

// Expr is a raw predicate with '?' marks for its args.
func Expr(expr string, args ...any) Condition {
	return func(s *statement) {
		s.expand(expr, args)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	orderBy []string
	lock    string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join appends a raw join clause, e.g. "JOIN stations up ON up.id = s.up_station_id".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// ForShare locks the selected rows against concurrent update until the
// transaction ends.
func (b *SelectBuilder) ForShare() *SelectBuilder {
	b.lock = "FOR SHARE"
	return b
}

// ForUpdate locks the selected rows exclusively until the transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.lock = "FOR UPDATE"
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var s statement
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	for _, join := range b.joins {
		s.write(" ", join)
	}
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.lock != "" {
		s.write(" ", b.lock)
	}

	return s.sql.String(), s.args, nil
}

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	conflict  string
	returning []string
	err       error
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// OnConflictDoNothing skips rows violating the unique index described by
// target, e.g. "(name) WHERE deleted_at IS NULL".
func (b *InsertBuilder) OnConflictDoNothing(target string) *InsertBuilder {
	b.conflict = strings.TrimSpace(target)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var s statement
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		marks := make([]string, len(row))
		for j, v := range row {
			marks[j] = s.bind(v)
		}
		s.write("(", strings.Join(marks, ", "), ")")
	}
	if b.conflict != "" {
		s.write(" ON CONFLICT ", b.conflict, " DO NOTHING")
	}
	if len(b.returning) > 0 {
		s.write(" RETURNING ", strings.Join(b.returning, ", "))
	}

	return s.sql.String(), s.args, nil
}

type assignment struct {
	column string
	render func(*statement)
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *statement) {
		s.write(s.bind(value))
	}})
	return b
}

// SetExpr assigns a raw SQL expression, e.g. SetExpr("updated_at", "NOW()").
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *statement) {
		s.expand(expr, args)
	}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var s statement
	s.write("UPDATE ", b.table, " SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(set.column, " = ")
		set.render(&s)
	}
	s.where(b.where)

	return s.sql.String(), s.args, nil
}

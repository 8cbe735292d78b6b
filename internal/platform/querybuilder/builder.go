package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("table is required")
	errNoColumns = errors.New("columns are required")
	errUnscoped  = errors.New("delete requires at least one condition")
)

// writer accumulates SQL text and its positional arguments.
type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) sql(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

// bind appends v as the next $n argument.
func (w *writer) bind(v any) {
	w.args = append(w.args, v)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

func (w *writer) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.sql(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.sql(" AND ")
		}
		c.write(w)
	}
}

func (w *writer) result() (string, []any, error) {
	return w.buf.String(), w.args, nil
}

type Condition interface {
	write(w *writer)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) write(w *writer) {
	w.sql(c.column, " ", c.op, " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

// Gte and Lte bound a column inclusively.
func Gte(column string, value any) Condition {
	return compare{column: column, op: ">=", value: value}
}

func Lte(column string, value any) Condition {
	return compare{column: column, op: "<=", value: value}
}

type lowerEq struct {
	column string
	value  string
}

// EqFold matches a text column case-insensitively.
func EqFold(column, value string) Condition {
	return lowerEq{column: column, value: strings.ToLower(value)}
}

func (c lowerEq) write(w *writer) {
	w.sql("LOWER(", c.column, ") = ")
	w.bind(c.value)
}

type arrayHas struct {
	column string
	value  any
}

// Has matches rows whose array column contains value.
func Has(column string, value any) Condition {
	return arrayHas{column: column, value: value}
}

func (c arrayHas) write(w *writer) {
	w.bind(c.value)
	w.sql(" = ANY(", c.column, ")")
}

type anyOf []Condition

// Or joins conditions with OR inside parentheses. An empty Or matches nothing.
func Or(conds ...Condition) Condition {
	return anyOf(conds)
}

func (c anyOf) write(w *writer) {
	if len(c) == 0 {
		w.sql("FALSE")
		return
	}
	w.sql("(")
	for i, cond := range c {
		if i > 0 {
			w.sql(" OR ")
		}
		cond.write(w)
	}
	w.sql(")")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errNoColumns
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}

	var w writer
	w.sql("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.sql(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql(" LIMIT ", strconv.Itoa(b.limit))
	}
	return w.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}
	if len(b.where) == 0 {
		return "", nil, errUnscoped
	}

	var w writer
	w.sql("DELETE FROM ", b.table)
	w.where(b.where)
	return w.result()
}

func insert(w *writer, table string, cols []string, vals []any) {
	w.sql("INSERT INTO ", table, " (", strings.Join(cols, ", "), ") VALUES (")
	for i, v := range vals {
		if i > 0 {
			w.sql(", ")
		}
		w.bind(v)
	}
	w.sql(")")
}

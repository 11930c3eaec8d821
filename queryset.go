package ormbridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/ormbridge/ormbridge/mirror"
)

// QuerySet is a lazy query over one mirror model. Chaining methods return
// copies; nothing touches the database until a terminal operation runs,
// and every terminal operation initializes the connection layer first.
type QuerySet struct {
	bridge *Bridge
	model  *mirror.Model
	err    error

	alias      string
	conditions []condition
	ordering   []string
	limit      int
	offset     int
}

type condition struct {
	field   string
	value   interface{}
	exclude bool
}

func newQuerySet(b *Bridge, model *mirror.Model) *QuerySet {
	return &QuerySet{bridge: b, model: model, alias: "default", limit: -1, offset: -1}
}

func (qs *QuerySet) clone() *QuerySet {
	dup := *qs
	dup.conditions = append([]condition(nil), qs.conditions...)
	dup.ordering = append([]string(nil), qs.ordering...)
	return &dup
}

// Filter adds an equality condition.
func (qs *QuerySet) Filter(field string, value interface{}) *QuerySet {
	dup := qs.clone()
	dup.conditions = append(dup.conditions, condition{field: field, value: value})
	return dup
}

// Exclude adds a negated equality condition.
func (qs *QuerySet) Exclude(field string, value interface{}) *QuerySet {
	dup := qs.clone()
	dup.conditions = append(dup.conditions, condition{field: field, value: value, exclude: true})
	return dup
}

// OrderBy orders results by the given fields. A "-" prefix sorts
// descending.
func (qs *QuerySet) OrderBy(fields ...string) *QuerySet {
	dup := qs.clone()
	dup.ordering = append(dup.ordering, fields...)
	return dup
}

// Limit caps the number of returned rows.
func (qs *QuerySet) Limit(n int) *QuerySet {
	dup := qs.clone()
	dup.limit = n
	return dup
}

// Offset skips the first n rows.
func (qs *QuerySet) Offset(n int) *QuerySet {
	dup := qs.clone()
	dup.offset = n
	return dup
}

// Using routes the query to a configured database alias.
func (qs *QuerySet) Using(alias string) *QuerySet {
	dup := qs.clone()
	dup.alias = alias
	return dup
}

// column resolves a field name to its backing column.
func (qs *QuerySet) column(name string) string {
	f := qs.model.Field(name)
	if f == nil {
		return name
	}
	if f.Column != "" {
		return f.Column
	}
	if f.Relation != nil {
		return f.Name + "_id"
	}
	return f.Name
}

// selectColumns lists the scalar columns of the model. Many-to-many
// fields have no column on this table.
func (qs *QuerySet) selectColumns() []string {
	var cols []string
	for _, f := range qs.model.Fields {
		if f.Type == mirror.ManyToMany {
			continue
		}
		cols = append(cols, qs.column(f.Name))
	}
	return cols
}

func (qs *QuerySet) buildSelect(conn Connection, columns string) (string, []interface{}) {
	var (
		b    strings.Builder
		args []interface{}
	)

	b.WriteString("SELECT " + columns + " FROM " + qs.model.Meta.Table)

	for _, c := range qs.conditions {
		if len(args) == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, c.value)
		if c.exclude {
			b.WriteString("NOT ")
		}
		b.WriteString(qs.column(c.field) + " = " + conn.BindVar(len(args)))
	}

	if len(qs.ordering) > 0 {
		var parts []string
		for _, f := range qs.ordering {
			if strings.HasPrefix(f, "-") {
				parts = append(parts, qs.column(f[1:])+" DESC")
			} else {
				parts = append(parts, qs.column(f))
			}
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}

	if qs.limit >= 0 {
		fmt.Fprintf(&b, " LIMIT %d", qs.limit)
	}
	if qs.offset >= 0 {
		fmt.Fprintf(&b, " OFFSET %d", qs.offset)
	}

	return b.String(), args
}

func (qs *QuerySet) connection(ctx context.Context) (Connection, error) {
	if qs.err != nil {
		return nil, qs.err
	}
	if err := qs.bridge.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return qs.bridge.gate.Connection(qs.alias)
}

// All executes the query and returns every row as a column-keyed map.
func (qs *QuerySet) All(ctx context.Context) ([]map[string]interface{}, error) {
	conn, err := qs.connection(ctx)
	if err != nil {
		return nil, err
	}

	cols := qs.selectColumns()
	query, args := qs.buildSelect(conn, strings.Join(cols, ", "))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// First returns the first matching row, or nil when nothing matches.
func (qs *QuerySet) First(ctx context.Context) (map[string]interface{}, error) {
	rows, err := qs.Limit(1).All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Count returns the number of matching rows.
func (qs *QuerySet) Count(ctx context.Context) (int64, error) {
	conn, err := qs.connection(ctx)
	if err != nil {
		return 0, err
	}

	counted := qs.clone()
	counted.ordering = nil
	counted.limit = -1
	counted.offset = -1
	query, args := counted.buildSelect(conn, "COUNT(*)")

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

// Exists reports whether any row matches.
func (qs *QuerySet) Exists(ctx context.Context) (bool, error) {
	n, err := qs.Count(ctx)
	return n > 0, err
}

package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// SortField is one ORDER BY term over a logical field.
type SortField struct {
	Field      string
	Descending bool
}

// Assignment pairs a logical field with the value written to it.
type Assignment struct {
	Field string
	Value any
}

// Set creates an Assignment.
func Set(field string, value any) Assignment {
	return Assignment{Field: field, Value: value}
}

// Builder constructs statements against a projection. Placeholders are
// numbered when a statement is built, so conditions and assignments may be
// added in any order.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for projection. defaultSort applies to
// Build when OrderBy is not called.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: b.projection.Column(field) + " = $%d",
		args:   []any{value},
	})
	return b
}

// WhereNullable adds an equality condition, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	if isNil(value) {
		b.conditions = append(b.conditions, condition{
			clause: b.projection.Column(field) + " IS NULL",
		})
		return b
	}
	return b.WhereEquals(field, value)
}

// OrderBy replaces the default sort.
func (b *Builder) OrderBy(fields ...SortField) *Builder {
	b.orderBy = fields
	return b
}

// Build returns a SELECT of every projected column.
func (b *Builder) Build() (string, []any) {
	where, args := b.where(1)

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.order(),
	)
	return sql, args
}

// BuildInsert returns an INSERT of values that returns the stored row.
// Builder conditions are ignored.
func (b *Builder) BuildInsert(values ...Assignment) (string, []any) {
	cols := make([]string, len(values))
	params := make([]string, len(values))
	args := make([]any, len(values))

	for i, v := range values {
		cols[i] = b.projection.Name(v.Field)
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v.Value
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s.%s AS %s (%s) VALUES (%s) RETURNING %s",
		b.projection.schema,
		b.projection.table,
		b.projection.alias,
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
		b.projection.Columns(),
	)
	return sql, args
}

// BuildUpdate returns an UPDATE applying values to the rows matching the
// builder's conditions. It returns the updated rows.
func (b *Builder) BuildUpdate(values ...Assignment) (string, []any) {
	sets := make([]string, len(values))
	args := make([]any, 0, len(values))

	for i, v := range values {
		sets[i] = fmt.Sprintf("%s = $%d", b.projection.Name(v.Field), i+1)
		args = append(args, v.Value)
	}

	where, whereArgs := b.where(len(values) + 1)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s%s RETURNING %s",
		b.projection.Table(),
		strings.Join(sets, ", "),
		where,
		b.projection.Columns(),
	)
	return sql, append(args, whereArgs...)
}

// BuildDelete returns a DELETE of the rows matching the builder's conditions.
func (b *Builder) BuildDelete() (string, []any) {
	where, args := b.where(1)
	return fmt.Sprintf("DELETE FROM %s%s", b.projection.Table(), where), args
}

func (b *Builder) order() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) where(start int) (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, len(b.conditions))
	var args []any
	param := start

	for i, c := range b.conditions {
		clause := c.clause
		for _, arg := range c.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", param), 1)
			args = append(args, arg)
			param++
		}
		clauses[i] = clause
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

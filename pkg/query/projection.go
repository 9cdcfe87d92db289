// Package query builds parameterized PostgreSQL statements over a
// projection of logical field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to the columns of one table.
// Column order is the order fields were projected, which is also the
// order rows are scanned in.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	fields  []string
}

// NewProjectionMap creates a ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps field to column.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns[field] = column
	p.fields = append(p.fields, field)
	return p
}

// Table returns "schema.table alias".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Name returns the unqualified column for field, or field itself when it
// is not projected.
func (p *ProjectionMap) Name(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}

// Column returns the alias-qualified column for field.
func (p *ProjectionMap) Column(field string) string {
	return p.alias + "." + p.Name(field)
}

// Columns returns every projected column, alias-qualified and comma-separated.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.fields))
	for i, f := range p.fields {
		cols[i] = p.Column(f)
	}
	return strings.Join(cols, ", ")
}

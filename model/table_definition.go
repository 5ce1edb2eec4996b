package model

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TableDefinition is the ordered set of columns a table has.
// Column order is significant and is the order of insertion into the backing map.
// A TableDefinition is never mutated after construction, so it can be shared between goroutines.
type TableDefinition struct {
	columns *orderedmap.OrderedMap[string, ColumnDefinition]
}

// NewTableDefinition copies columns, later changes by the caller are not observed.
// A nil map is treated as empty.
func NewTableDefinition(columns *orderedmap.OrderedMap[string, ColumnDefinition]) *TableDefinition {
	copied := orderedmap.New[string, ColumnDefinition]()
	if columns != nil {
		for pair := columns.Oldest(); pair != nil; pair = pair.Next() {
			copied.Set(pair.Key, pair.Value)
		}
	}
	return &TableDefinition{columns: copied}
}

// NewTableDefinitionFromColumns keys each column by its Name.
// A repeated name replaces the earlier definition and keeps its position.
func NewTableDefinitionFromColumns(columns ...ColumnDefinition) *TableDefinition {
	m := orderedmap.New[string, ColumnDefinition]()
	for _, column := range columns {
		m.Set(column.Name, column)
	}
	return &TableDefinition{columns: m}
}

func (t *TableDefinition) Columns() iter.Seq2[string, ColumnDefinition] {
	return func(yield func(string, ColumnDefinition) bool) {
		if t == nil {
			return
		}
		for pair := t.columns.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// ColumnMap returns a copy of the column mapping.
func (t *TableDefinition) ColumnMap() *orderedmap.OrderedMap[string, ColumnDefinition] {
	m := orderedmap.New[string, ColumnDefinition]()
	for name, column := range t.Columns() {
		m.Set(name, column)
	}
	return m
}

func (t *TableDefinition) Column(name string) (ColumnDefinition, bool) {
	if t == nil {
		return ColumnDefinition{}, false
	}
	return t.columns.Get(name)
}

func (t *TableDefinition) Len() int {
	if t == nil {
		return 0
	}
	return t.columns.Len()
}

func (t *TableDefinition) ColumnNames() []string {
	names := make([]string, 0, t.Len())
	for name := range t.Columns() {
		names = append(names, name)
	}
	return names
}

// Equal compares key, order and value.
func (t *TableDefinition) Equal(other *TableDefinition) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.columns.Oldest(), other.columns.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
		a, b = a.Next(), b.Next()
	}
	return a == nil && b == nil
}

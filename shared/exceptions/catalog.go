package exceptions

import "fmt"

// CatalogError wraps failures reading table metadata from a peer
type CatalogError struct {
	error
}

func NewCatalogError(err error) *CatalogError {
	return &CatalogError{err}
}

func (e *CatalogError) Error() string {
	return "Catalog Error: " + e.error.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.error
}

type TableNotFoundError struct {
	Schema string
	Table  string
}

func NewTableNotFoundError(schema string, table string) *TableNotFoundError {
	return &TableNotFoundError{Schema: schema, Table: table}
}

func (e *TableNotFoundError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("table %s does not exist or has no visible columns", e.Table)
	}
	return fmt.Sprintf("table %s.%s does not exist or has no visible columns", e.Schema, e.Table)
}

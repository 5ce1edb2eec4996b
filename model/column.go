package model

// ColumnDefinition is a column as reported by the destination's catalog.
// Type is the database's own spelling of the type, not a normalized kind.
type ColumnDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ColumnSize int32  `json:"columnSize,omitempty"`
	Nullable   bool   `json:"nullable"`
}

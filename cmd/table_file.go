package cmd

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tableFile is the on-disk form of a TableDefinition. Columns are a list so order survives.
type tableFile struct {
	Schema  string                   `json:"schema,omitempty"`
	Table   string                   `json:"table"`
	Columns []model.ColumnDefinition `json:"columns"`
}

func newTableFile(schema string, table string, td *model.TableDefinition) *tableFile {
	columns := make([]model.ColumnDefinition, 0, td.Len())
	for _, column := range td.Columns() {
		columns = append(columns, column)
	}
	return &tableFile{Schema: schema, Table: table, Columns: columns}
}

func (f *tableFile) definition() *model.TableDefinition {
	return model.NewTableDefinitionFromColumns(f.Columns...)
}

func writeTableFile(w io.Writer, f *tableFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// readTableFile loads an expected table. Unreadable or malformed files are the user's to fix.
func readTableFile(path string) (*tableFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exceptions.NewConfigErrorWithCause(
			fmt.Sprintf("Could not read expected table file %s", path), err, "readTableFile: "+err.Error())
	}
	var f tableFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, exceptions.NewConfigErrorWithCause(
			fmt.Sprintf("Expected table file %s is not valid JSON", path), err, "readTableFile: "+err.Error())
	}
	seen := make(map[string]struct{}, len(f.Columns))
	for _, column := range f.Columns {
		if _, ok := seen[column.Name]; ok {
			return nil, exceptions.NewConfigError(
				fmt.Sprintf("Expected table file %s lists column %q more than once", path, column.Name))
		}
		seen[column.Name] = struct{}{}
	}
	return &f, nil
}

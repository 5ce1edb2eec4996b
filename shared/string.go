package shared

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

func JoinHostPort[I constraints.Integer](host string, port I) string {
	return net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))
}

// QualifiedTable renders schema.table, or just table when schema is empty.
func QualifiedTable(schema string, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}

// ParseQualifiedTable splits "schema.table" on the first dot.
func ParseQualifiedTable(name string) (string, string) {
	schema, table, found := strings.Cut(name, ".")
	if !found {
		return "", name
	}
	return schema, table
}

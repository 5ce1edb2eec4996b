// Package schemadelta decides whether a destination table matches the definition a sync expects.
package schemadelta

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

type CompareOptions struct {
	// StrictOrder also requires the shared columns to appear in the same relative order.
	StrictOrder bool
	// IgnoreExtraColumns accepts destination columns the expected definition does not name.
	IgnoreExtraColumns bool
	// IgnoreNullability skips nullability checks, useful when a destination cannot express NOT NULL.
	IgnoreNullability bool
}

type TypeMismatch struct {
	Column   string
	Expected string
	Actual   string
}

type NullabilityMismatch struct {
	Column           string
	ExpectedNullable bool
}

type TableDelta struct {
	MissingColumns        []string
	ExtraColumns          []string
	TypeMismatches        []TypeMismatch
	NullabilityMismatches []NullabilityMismatch
	OrderMismatch         bool
	ignoreExtraColumns    bool
}

// Compare walks expected in order, then actual for extras, so every list in the delta keeps column order.
func Compare(expected *model.TableDefinition, actual *model.TableDefinition, opts CompareOptions) *TableDelta {
	delta := &TableDelta{ignoreExtraColumns: opts.IgnoreExtraColumns}

	sharedExpected := make([]string, 0, expected.Len())
	for name, want := range expected.Columns() {
		got, ok := actual.Column(name)
		if !ok {
			delta.MissingColumns = append(delta.MissingColumns, name)
			continue
		}
		sharedExpected = append(sharedExpected, name)
		if !strings.EqualFold(strings.TrimSpace(want.Type), strings.TrimSpace(got.Type)) {
			delta.TypeMismatches = append(delta.TypeMismatches, TypeMismatch{
				Column:   name,
				Expected: want.Type,
				Actual:   got.Type,
			})
		}
		if !opts.IgnoreNullability && want.Nullable != got.Nullable {
			delta.NullabilityMismatches = append(delta.NullabilityMismatches, NullabilityMismatch{
				Column:           name,
				ExpectedNullable: want.Nullable,
			})
		}
	}

	sharedActual := make([]string, 0, actual.Len())
	for name := range actual.Columns() {
		if _, ok := expected.Column(name); ok {
			sharedActual = append(sharedActual, name)
		} else {
			delta.ExtraColumns = append(delta.ExtraColumns, name)
		}
	}

	if opts.StrictOrder {
		delta.OrderMismatch = !slices.Equal(sharedExpected, sharedActual)
	}
	return delta
}

func (d *TableDelta) Matches() bool {
	return len(d.MissingColumns) == 0 &&
		(d.ignoreExtraColumns || len(d.ExtraColumns) == 0) &&
		len(d.TypeMismatches) == 0 &&
		len(d.NullabilityMismatches) == 0 &&
		!d.OrderMismatch
}

// Problems lists one human readable line per difference that counts against Matches.
func (d *TableDelta) Problems() []string {
	var problems []string
	if len(d.MissingColumns) > 0 {
		problems = append(problems, "missing columns: "+strings.Join(d.MissingColumns, ", "))
	}
	if !d.ignoreExtraColumns && len(d.ExtraColumns) > 0 {
		problems = append(problems, "unexpected columns: "+strings.Join(d.ExtraColumns, ", "))
	}
	for _, m := range d.TypeMismatches {
		problems = append(problems, fmt.Sprintf("column %s has type %s, expected %s", m.Column, m.Actual, m.Expected))
	}
	for _, m := range d.NullabilityMismatches {
		if m.ExpectedNullable {
			problems = append(problems, fmt.Sprintf("column %s is NOT NULL, expected nullable", m.Column))
		} else {
			problems = append(problems, fmt.Sprintf("column %s is nullable, expected NOT NULL", m.Column))
		}
	}
	if d.OrderMismatch {
		problems = append(problems, "columns are not in the expected order")
	}
	return problems
}

// ConfigError is nil for a matching delta. Otherwise the display message names the table and its problems,
// and the internal message carries the full delta including ignored extras.
func (d *TableDelta) ConfigError(table string) error {
	if d.Matches() {
		return nil
	}
	display := fmt.Sprintf("Destination table %s does not match the expected schema: %s",
		table, strings.Join(d.Problems(), "; "))
	internal := fmt.Sprintf("table=%s missing=%v extra=%v types=%+v nullability=%+v orderMismatch=%t",
		table, d.MissingColumns, d.ExtraColumns, d.TypeMismatches, d.NullabilityMismatches, d.OrderMismatch)
	return exceptions.NewConfigErrorWithInternal(display, internal)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/PeerDB-io/destkit/connectors"
	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/otel_metrics"
	"github.com/PeerDB-io/destkit/schemadelta"
	"github.com/PeerDB-io/destkit/shared"
)

type CompareOptions struct {
	Peer               PeerOptions
	ExpectedFile       string
	Schema             string
	Table              string
	StrictOrder        bool
	IgnoreExtraColumns bool
	IgnoreNullability  bool
}

// CompareMain checks the live table against the expected file. A mismatch is returned as a ConfigError.
// Schema and Table fall back to the ones named in the file.
func CompareMain(ctx context.Context, opts *CompareOptions, otelManager *otel_metrics.OtelManager, out io.Writer) error {
	expected, err := readTableFile(opts.ExpectedFile)
	if err != nil {
		return err
	}
	schema, table := resolveTable(opts.Schema, opts.Table)
	if table == "" {
		schema, table = expected.Schema, expected.Table
	}
	config, err := opts.Peer.peerConfig()
	if err != nil {
		return err
	}
	actual, err := connectors.ReadTableDefinition(ctx, config, schema, table, otelManager)
	if err != nil {
		return err
	}
	return compareTables(ctx, shared.QualifiedTable(schema, table), expected.definition(), actual, schemadelta.CompareOptions{
		StrictOrder:        opts.StrictOrder,
		IgnoreExtraColumns: opts.IgnoreExtraColumns,
		IgnoreNullability:  opts.IgnoreNullability,
	}, config.Type, otelManager, out)
}

func compareTables(
	ctx context.Context,
	qualifiedTable string,
	expected *model.TableDefinition,
	actual *model.TableDefinition,
	compareOpts schemadelta.CompareOptions,
	peerType model.PeerType,
	otelManager *otel_metrics.OtelManager,
	out io.Writer,
) error {
	delta := schemadelta.Compare(expected, actual, compareOpts)
	if delta.Matches() {
		internal.LoggerFromCtx(ctx).Info("table matches expected definition", slog.String("table", qualifiedTable))
		_, err := fmt.Fprintf(out, "%s matches (%d columns)\n", qualifiedTable, actual.Len())
		return err
	}
	if otelManager != nil {
		otelManager.Metrics.TableMismatchesCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(otel_metrics.PeerTypeKey, string(peerType))))
	}
	return delta.ConfigError(qualifiedTable)
}

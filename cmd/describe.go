package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/PeerDB-io/destkit/connectors"
	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/otel_metrics"
	"github.com/PeerDB-io/destkit/shared"
)

type DescribeOptions struct {
	Peer   PeerOptions
	Schema string
	Table  string
}

// DescribeMain writes the table's current definition to out in the expected-table file format.
func DescribeMain(ctx context.Context, opts *DescribeOptions, otelManager *otel_metrics.OtelManager, out io.Writer) error {
	config, err := opts.Peer.peerConfig()
	if err != nil {
		return err
	}
	schema, table := resolveTable(opts.Schema, opts.Table)
	td, err := connectors.ReadTableDefinition(ctx, config, schema, table, otelManager)
	if err != nil {
		return err
	}
	internal.LoggerFromCtx(ctx).Info("described table",
		slog.String("table", shared.QualifiedTable(schema, table)),
		slog.Int("columns", td.Len()))
	return writeTableFile(out, newTableFile(schema, table, td))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"

	"github.com/PeerDB-io/destkit/alerting"
	"github.com/PeerDB-io/destkit/cmd"
	"github.com/PeerDB-io/destkit/otel_metrics"
	"github.com/PeerDB-io/destkit/shared"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
	slog.SetDefault(slog.New(shared.NewSlogHandler(slog.NewJSONHandler(os.Stderr, shared.NewSlogHandlerOptions()))))

	if err := run(); err != nil {
		log.Printf("error running destkit: %v", err)
		os.Exit(1)
	}
}

func run() error {
	appCtx, appClose := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appClose()

	otelManager, err := otel_metrics.NewOtelManager(appCtx, "destkit")
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	defer func() {
		if err := otelManager.Close(context.Background()); err != nil {
			slog.Warn("failed to shut down metrics", slog.Any("error", err))
		}
	}()

	reporter, err := alerting.NewReporterFromEnv(appCtx, otelManager)
	if err != nil {
		return fmt.Errorf("failed to set up alerting: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			slog.Warn("failed to close alert senders", slog.Any("error", err))
		}
	}()

	peerFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "peer-type",
			Usage:    "Destination type: postgres, mysql or clickhouse",
			Required: true,
			Sources:  cli.EnvVars("DESTKIT_PEER_TYPE"),
		},
		&cli.StringFlag{
			Name:    "peer-name",
			Usage:   "Name used in logs and alerts",
			Sources: cli.EnvVars("DESTKIT_PEER_NAME"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Sources: cli.EnvVars("DESTKIT_PEER_HOST"),
		},
		&cli.UintFlag{
			Name:    "port",
			Usage:   "Defaults to the peer type's standard port",
			Sources: cli.EnvVars("DESTKIT_PEER_PORT"),
		},
		&cli.StringFlag{
			Name:    "user",
			Sources: cli.EnvVars("DESTKIT_PEER_USER"),
		},
		&cli.StringFlag{
			Name:    "password",
			Sources: cli.EnvVars("DESTKIT_PEER_PASSWORD"),
		},
		&cli.StringFlag{
			Name:    "database",
			Sources: cli.EnvVars("DESTKIT_PEER_DATABASE"),
		},
		&cli.BoolFlag{
			Name:    "require-tls",
			Sources: cli.EnvVars("DESTKIT_PEER_REQUIRE_TLS"),
		},
		&cli.StringFlag{
			Name:    "schema",
			Usage:   "Schema (or database for MySQL and ClickHouse) holding the table",
			Sources: cli.EnvVars("DESTKIT_SCHEMA"),
		},
	}

	peerOptions := func(clicmd *cli.Command) cmd.PeerOptions {
		return cmd.PeerOptions{
			Name:       clicmd.String("peer-name"),
			Type:       clicmd.String("peer-type"),
			Host:       clicmd.String("host"),
			Port:       uint64(clicmd.Uint("port")),
			User:       clicmd.String("user"),
			Password:   clicmd.String("password"),
			Database:   clicmd.String("database"),
			RequireTls: clicmd.Bool("require-tls"),
		}
	}

	app := &cli.Command{
		Name:  "destkit",
		Usage: "Inspect destination tables and check them against an expected definition",
		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "Print a table's column definitions as JSON",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "table",
						Usage:    "Table name, or schema.table when --schema is not set",
						Required: true,
					},
				}, peerFlags...),
				Action: func(ctx context.Context, clicmd *cli.Command) error {
					return reporter.Report(ctx, cmd.DescribeMain(ctx, &cmd.DescribeOptions{
						Peer:   peerOptions(clicmd),
						Schema: clicmd.String("schema"),
						Table:  clicmd.String("table"),
					}, otelManager, os.Stdout))
				},
			},
			{
				Name:  "compare",
				Usage: "Check a table against an expected definition file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "expected",
						Usage:    "Path to a file written by describe",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Table name or schema.table, defaults to the table named in the expected file",
					},
					&cli.BoolFlag{
						Name:  "strict-order",
						Usage: "Fail when columns are present but in a different order",
					},
					&cli.BoolFlag{
						Name:  "ignore-extra",
						Usage: "Allow columns that the expected file does not list",
					},
					&cli.BoolFlag{
						Name: "ignore-nullability",
					},
				}, peerFlags...),
				Action: func(ctx context.Context, clicmd *cli.Command) error {
					return reporter.Report(ctx, cmd.CompareMain(ctx, &cmd.CompareOptions{
						Peer:               peerOptions(clicmd),
						ExpectedFile:       clicmd.String("expected"),
						Schema:             clicmd.String("schema"),
						Table:              clicmd.String("table"),
						StrictOrder:        clicmd.Bool("strict-order"),
						IgnoreExtraColumns: clicmd.Bool("ignore-extra"),
						IgnoreNullability:  clicmd.Bool("ignore-nullability"),
					}, otelManager, os.Stdout))
				},
			},
		},
	}

	return app.Run(appCtx, os.Args)
}

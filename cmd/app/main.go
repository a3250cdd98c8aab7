package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/resource-api/internal"
	"github.com/starford/resource-api/internal/mcpserver"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/seed"
	"github.com/starford/resource-api/internal/store"
	"github.com/starford/resource-api/internal/sumton"
	pkgconfig "github.com/starford/resource-api/pkg/config"
)

const version = "1.0.0"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// openStore loads the config and opens the store with a logger writing to w.
func openStore(ctx context.Context, cmd *cli.Command, w io.Writer) (*store.Store, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	var level slog.LevelVar
	logger := internal.NewLogger(cfg, &level, w)
	slog.SetDefault(logger)

	db, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	return db, logger, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(configPath),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func migrateUp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var level slog.LevelVar
	logger := internal.NewLogger(cfg, &level, os.Stdout)

	db, err := store.Connect(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	for _, r := range applied {
		logger.Info("Migration applied", slog.Int64("version", r.Version), slog.String("source", r.Path))
	}
	logger.Info("Database is up to date", slog.Int("applied", len(applied)))
	return nil
}

func migrateStatus(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := store.Connect(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	records, err := db.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
	for _, r := range records {
		state, at := "pending", "-"
		if r.Applied {
			state, at = "applied", r.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Version, state, at, r.Path)
	}
	return tw.Flush()
}

func seedResources(ctx context.Context, cmd *cli.Command) error {
	db, logger, err := openStore(ctx, cmd, os.Stdout)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = seed.Run(ctx, db, logger, seed.Options{
		Count: int(cmd.Int("count")),
		Reset: cmd.Bool("reset"),
	})
	return err
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the MCP protocol.
	db, _, err := openStore(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcpserver.New(resourceservice.NewService(db), version)
	return srv.ServeStdio()
}

func sumToN(_ context.Context, cmd *cli.Command) error {
	n := int(cmd.Int("n"))
	for _, v := range sumton.Variants() {
		sum, err := v.Fn(n)
		if errors.Is(err, sumton.ErrTooLarge) {
			fmt.Printf("%-10s skipped: %v\n", v.Name, err)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %d\n", v.Name, sum)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "resource-api",
		Usage:   "CRUD service for typed resources with pagination and soft delete",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: run,
			},
			{
				Name:   "migrate",
				Usage:  "Manage database migrations",
				Action: migrateUp,
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply pending migrations", Action: migrateUp},
					{Name: "status", Usage: "List migrations and their state", Action: migrateStatus},
				},
			},
			{
				Name:   "seed",
				Usage:  "Insert random sample resources",
				Action: seedResources,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: seed.DefaultCount, Usage: "Number of resources"},
					&cli.BoolFlag{Name: "reset", Usage: "Delete existing resources first"},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve resource tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:   "sum-to-n",
				Usage:  "Print 1+2+...+n computed three ways",
				Action: sumToN,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "n", Value: 10, Usage: "Upper bound (0 to 4294967295; recursion stops at 1000000)"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

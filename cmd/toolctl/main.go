package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nhabuon/ToolTinhLai/internal/config"
	"github.com/nhabuon/ToolTinhLai/internal/repository/sqlstore"
	"github.com/nhabuon/ToolTinhLai/pkg/logger"
)

type ctxKey string

const (
	configKey ctxKey = "config"
	dbKey     ctxKey = "db"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "toolctl",
		Usage: "Shopee seller toolkit: normalise amounts, extract report totals, compute reorder points, import weeks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"TOOLCTL_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetOutput(os.Stderr)
			logger.SetLevel(c.String("log-level"))
			c.Context = context.WithValue(c.Context, configKey, config.Load())
			return nil
		},
		Commands: []*cli.Command{
			normalizeCommand(),
			extractCommand(),
			ropCommand(),
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Flags:  []cli.Flag{newDBPathFlag()},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					db := dbFrom(c)
					fmt.Fprintf(c.App.Writer, "schema up to date (%s)\n", db.Driver())
					return nil
				},
			},
			backfillCommand(),
			driveImportCommand(),
		},
	}
}

func newDBPathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "db-path",
		Usage: "SQLite database file, overrides DB_SQLITE_PATH",
	}
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.Context.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Load()
}

// initDB opens and migrates the configured database for the command.
func initDB(c *cli.Context) error {
	dbCfg := configFrom(c).Database
	if path := c.String("db-path"); path != "" {
		dbCfg.Driver = sqlstore.DriverSQLite
		dbCfg.SQLitePath = path
	}

	db, err := sqlstore.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sqlstore.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sqlstore.DB {
	db, _ := c.Context.Value(dbKey).(*sqlstore.DB)
	return db
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/nhabuon/ToolTinhLai/internal/currency"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/drive"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/pipeline"
	"github.com/nhabuon/ToolTinhLai/internal/report"
	"github.com/nhabuon/ToolTinhLai/internal/repository/sqlstore"
	"github.com/nhabuon/ToolTinhLai/internal/service"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Convert locale-formatted amounts to numbers",
		ArgsUsage: "<value...>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one value is required", 2)
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			for _, raw := range c.Args().Slice() {
				v := currency.NormalizeString(raw)
				fmt.Fprintf(w, "%s\t%s\t%s\n", raw, strconv.FormatFloat(v, 'f', -1, 64), currency.FormatVND(v, 2))
			}
			return w.Flush()
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract the revenue or ad spend total of an export file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "role",
				Usage: "revenue or ads",
				Value: string(report.RoleRevenue),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one file is required", 2)
			}
			role, err := report.ParseRole(c.String("role"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			path := c.Args().First()
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			extractor := report.New(report.Config(configFrom(c).Extract))
			res := extractor.Extract(filepath.Base(path), data, role)

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.OK() {
				return cli.Exit(res.Diagnostic.Message, 3)
			}
			return nil
		},
	}
}

func ropCommand() *cli.Command {
	return &cli.Command{
		Name:  "rop",
		Usage: "Compute the reorder point of a product",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "daily-sales", Usage: "average units sold per day", Required: true},
			&cli.IntFlag{Name: "lead-time", Usage: "supplier lead time in days", Required: true},
			&cli.IntFlag{Name: "safety-stock", Usage: "buffer units"},
			&cli.IntFlag{Name: "stock", Usage: "current stock, enables the alert check", Value: -1},
		},
		Action: func(c *cli.Context) error {
			params := inventory.Params{
				DailySales:  c.Float64("daily-sales"),
				LeadTime:    c.Int("lead-time"),
				SafetyStock: c.Int("safety-stock"),
			}
			if err := params.Validate(); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			rop := params.ReorderPoint()
			fmt.Fprintf(c.App.Writer, "reorder point: %d\n", rop)

			if c.IsSet("stock") {
				stock := c.Int("stock")
				sev := inventory.Evaluate(stock, rop)
				fmt.Fprintf(c.App.Writer, "status: %s\n", domain.SeverityLabel(sev))
				if runway := inventory.DaysOfRunway(stock, params.DailySales); runway != inventory.UnlimitedRunway {
					fmt.Fprintf(c.App.Writer, "days of stock left: %d\n", runway)
				}
				if sev.Critical() {
					fmt.Fprintln(c.App.Writer, sev.Advice())
				}
			}
			return nil
		},
	}
}

// openArchive is swapped out in tests.
var openArchive = storage.New

func backfillCommand() *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Import every YYYYMMDD_ export in a directory, or the archived uploads, into the weekly ledger",
		Flags: []cli.Flag{
			newDBPathFlag(),
			&cli.StringFlag{Name: "dir", Usage: "directory holding the exports; with --archive, where the archive is copied to first"},
			&cli.BoolFlag{Name: "archive", Usage: "read the uploads archived in object storage"},
			&cli.StringFlag{Name: "prefix", Usage: "archive key prefix", Value: storage.ReportsPrefix},
			&cli.IntFlag{Name: "workers", Usage: "weeks processed in parallel", Value: pipeline.DefaultConfig().WorkerCount},
		},
		Before: initDB,
		After:  closeDB,
		Action: func(c *cli.Context) error {
			dir := c.String("dir")
			if !c.Bool("archive") {
				if dir == "" {
					return cli.Exit("--dir or --archive is required", 2)
				}
				summaries, err := newOrchestrator(c).Backfill(c.Context, dir)
				if err != nil {
					return err
				}
				return printSummaries(c, summaries)
			}

			store, err := openArchive(c.Context, configFrom(c).Storage)
			if err != nil {
				return err
			}
			if store == nil {
				return cli.Exit("object storage is disabled, set STORAGE_ENABLED", 2)
			}

			orchestrator := newOrchestrator(c)
			if dir == "" {
				summaries, err := orchestrator.BackfillArchive(c.Context, store, c.String("prefix"))
				if err != nil {
					return err
				}
				return printSummaries(c, summaries)
			}

			paths, err := pipeline.MirrorArchive(c.Context, store, c.String("prefix"), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "downloaded %d files to %s\n", len(paths), dir)
			summaries, err := orchestrator.Backfill(c.Context, dir)
			if err != nil {
				return err
			}
			return printSummaries(c, summaries)
		},
	}
}

func driveImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "drive-import",
		Usage: "Import the dated exports of a Google Drive folder into the weekly ledger",
		Flags: []cli.Flag{
			newDBPathFlag(),
			&cli.StringFlag{Name: "folder", Usage: "Drive folder id, defaults to GOOGLE_DRIVE_FOLDER_ID"},
			&cli.StringFlag{Name: "download-dir", Usage: "keep a local copy of the exports and import from it"},
			&cli.IntFlag{Name: "workers", Usage: "weeks processed in parallel", Value: pipeline.DefaultConfig().WorkerCount},
		},
		Before: initDB,
		After:  closeDB,
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if cfg.Drive.CredentialsJSON == "" {
				return cli.Exit("GOOGLE_DRIVE_CREDENTIALS_JSON is not set", 2)
			}
			folder := c.String("folder")
			if folder == "" {
				folder = cfg.Drive.FolderID
			}
			if folder == "" {
				return cli.Exit("no folder given and GOOGLE_DRIVE_FOLDER_ID is not set", 2)
			}

			driveService, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
			if err != nil {
				return err
			}
			orchestrator := newOrchestrator(c)

			if dir := c.String("download-dir"); dir != "" {
				paths, err := drive.NewMirror(driveService).Download(c.Context, drive.MirrorOptions{FolderID: folder, DownloadDir: dir})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "downloaded %d files to %s\n", len(paths), dir)
				summaries, err := orchestrator.Backfill(c.Context, dir)
				if err != nil {
					return err
				}
				return printSummaries(c, summaries)
			}

			summaries, err := drive.NewImporter(driveService, orchestrator, folder).Import(c.Context, folder)
			if err != nil {
				return err
			}
			return printSummaries(c, summaries)
		},
	}
}

func newOrchestrator(c *cli.Context) *pipeline.Orchestrator {
	cfg := configFrom(c)
	extractor := report.New(report.Config(cfg.Extract))
	ledger := service.NewLedgerService(sqlstore.NewLedgerRepository(dbFrom(c)), extractor, nil, nil)
	return pipeline.NewOrchestrator(extractor, ledger, pipeline.Config{WorkerCount: c.Int("workers")})
}

func printSummaries(c *cli.Context, summaries []domain.ImportSummary) error {
	if len(summaries) == 0 {
		return cli.Exit("no dated exports found", 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tREVENUE\tAD SPEND\tCIR\tFILES")
	for _, s := range summaries {
		files := s.RevenueFile
		if s.AdsFile != "" {
			if files != "" {
				files += ", "
			}
			files += s.AdsFile
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%s\n",
			s.WeekStart.Format(domain.WeekLayout),
			currency.FormatVND(s.Revenue, 0),
			currency.FormatVND(s.AdSpend, 0),
			domain.CIR(s.Revenue, s.AdSpend)*100,
			files,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, s := range summaries {
		for _, line := range s.Log {
			fmt.Fprintln(c.App.ErrWriter, line)
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/budget"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
	"fintrack/internal/sheets"
	"fintrack/internal/transfer"
	"fintrack/internal/view"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	var (
		exportFormat = flag.String("export", "", "export the ledger to stdout (json|csv)")
		importFile   = flag.String("import", "", "import transactions from a file")
		importMode   = flag.String("mode", "merge", "import mode (merge|replace)")
		listQuery    = flag.String("search", "", "list transactions matching a search term")
		listSort     = flag.String("sort", string(view.SortDateDesc), "list sort order (date-desc|date-asc|amount-desc|amount-asc)")
		listPage     = flag.Int("page", 1, "list page number")
		list         = flag.Bool("list", false, "list transactions instead of the dashboard")
		toSheet      = flag.Bool("to-sheet", false, "append the ledger to the configured Google Sheet")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	sess := session.GuestSession()
	if cfg.UserID != "" {
		sess = session.ForUser(cfg.UserID)
	}
	store := sess.Store(result.Store)

	book, err := ledger.New(ctx, store)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	budgets, err := budget.New(ctx, store)
	if err != nil {
		logger.Error("Failed to load budgets", "error", err)
		os.Exit(1)
	}

	var publisher services.AlertPublisher
	if result.AMQP != nil {
		publisher = result.AMQP
	}
	tracker := services.NewTracker(book, budgets, publisher)
	now := time.Now()

	// Materialize due recurring transactions before rendering anything.
	recurring := services.NewRecurringService(store, book)
	if _, err := recurring.Run(ctx, now); err != nil {
		logger.Warn("Recurring processing failed", "error", err)
	}

	switch {
	case *importFile != "":
		if err := runImport(ctx, *importFile, *importMode, book, budgets); err != nil {
			logger.Error("Import failed", "error", err, "file", *importFile)
			os.Exit(1)
		}
		fmt.Printf("Imported %s (%s)\n", *importFile, *importMode)

	case *exportFormat != "":
		if err := runExport(*exportFormat, book, budgets); err != nil {
			logger.Error("Export failed", "error", err, "format", *exportFormat)
			os.Exit(1)
		}

	case *toSheet:
		if !cfg.SheetsExportEnabled() {
			logger.Error("Sheets export is not configured")
			os.Exit(1)
		}
		exporter, err := sheets.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize sheets exporter", "error", err)
			os.Exit(1)
		}
		if err := exporter.Export(ctx, book.Transactions()); err != nil {
			logger.Error("Sheets export failed", "error", err)
			os.Exit(1)
		}

	case *list:
		printList(book, view.Query{
			Search: *listQuery,
			Sort:   view.SortOrder(*listSort),
			Page:   *listPage,
		})

	default:
		printDashboard(tracker.Dashboard(now))
	}
}

func runImport(ctx context.Context, path, mode string, book *ledger.Ledger, budgets *budget.Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	payload, err := transfer.ParseJSON(data)
	if err != nil {
		// Fall back to CSV for plain transaction files.
		txs, csvErr := transfer.ParseCSV(data)
		if csvErr != nil {
			return fmt.Errorf("not valid JSON (%v) or CSV (%v)", err, csvErr)
		}
		payload = transfer.Payload{Transactions: txs}
	}

	return transfer.Apply(ctx, transfer.Mode(mode), payload, book, budgets)
}

func runExport(format string, book *ledger.Ledger, budgets *budget.Registry) error {
	switch format {
	case "json":
		data, err := transfer.ExportJSON(book.Transactions(), budgets.All())
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		fmt.Println()
	case "csv":
		os.Stdout.Write(transfer.ExportCSV(book.Transactions()))
	default:
		return fmt.Errorf("unknown export format %q (want json or csv)", format)
	}
	return nil
}

func printList(book *ledger.Ledger, q view.Query) {
	page := view.Apply(book.Transactions(), q)
	for _, tx := range page.Items {
		sign := "+"
		if tx.Type == core.Expense {
			sign = "-"
		}
		fmt.Printf("%s  %s%-10s  %-15s  %s\n",
			tx.Date.ISO(), sign, tx.Amount.String(), tx.Category, tx.Description)
	}
	fmt.Printf("page %d/%d (%d transactions)\n", page.Page, page.TotalPages, page.Total)
}

func printDashboard(d services.Dashboard) {
	fmt.Printf("Income:   %s\n", d.Stats.Income.String())
	fmt.Printf("Expenses: %s\n", d.Stats.Expense.String())
	fmt.Printf("Balance:  %s\n", d.Stats.Balance.String())

	if len(d.Report.Items) > 0 {
		fmt.Println("\nBudgets:")
		for _, item := range d.Report.Items {
			fmt.Printf("  %-15s %s / %s (%.0f%%, %s)\n",
				item.Category, item.Spent.String(), item.Limit.String(), item.Percentage, item.Status)
		}
	}
	for _, alert := range d.Report.Alerts {
		fmt.Printf("  ! %s\n", alert.Message)
	}

	fmt.Printf("\nHealth: %d/100 (%s) %s\n", d.Health.Total, d.Health.Grade, d.Health.Message)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/puntoventa/puntoventa/cmd/puntoventa/cli"
	"github.com/puntoventa/puntoventa/internal/app"
	"github.com/puntoventa/puntoventa/internal/catalog"
	"github.com/puntoventa/puntoventa/internal/ledger"
	"github.com/puntoventa/puntoventa/internal/masterdata"
	"github.com/puntoventa/puntoventa/internal/platform/db"
	"github.com/puntoventa/puntoventa/internal/settings"
	"github.com/puntoventa/puntoventa/internal/users"
)

const usage = `usage: puntoventa <command> [args]

commands:
  init                      migrate the store, seed defaults and the admin account
  products [search]         list catalog products as JSON
  summary <YYYY-MM-DD>      per-product sales summary for one date
  top [n]                   all-time best sellers (default 20)
  backup <path>             copy the store file out
  restore <path>            replace the store file with a backup
  clear-transactions        purge all sales, purchases and expenses
  expenses                  list recorded expenses
  expense <concept> <amt>   record an expense
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger, command string, args []string) error {
	store, err := db.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := db.Migrate(ctx, store); err != nil {
		return err
	}

	catalogSvc := catalog.NewService(catalog.NewRepository(store))
	engine := ledger.NewService(ledger.NewRepository(store))
	settingsStore := settings.NewStore(store)
	userSvc := users.NewService(users.NewRepository(store))
	contacts := masterdata.NewRepository(store)

	reports := cli.NewReportsCLI(engine)
	maintenance := cli.NewMaintenanceCLI(&storeFile{path: cfg.StorePath, handle: store}, engine)

	switch command {
	case "init":
		if err := userSvc.EnsureDefaultAdmin(ctx); err != nil {
			return err
		}
		if err := settingsStore.EnsureDefaults(ctx); err != nil {
			return err
		}
		if cfg.SeedSampleData {
			if err := catalogSvc.SeedSampleData(ctx); err != nil {
				return err
			}
		}
		logger.Info("store initialised", slog.String("path", cfg.StorePath))
		return nil

	case "products":
		search := ""
		if len(args) > 0 {
			search = args[0]
		}
		products, err := catalogSvc.List(ctx, search)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%s\t%s\t%.2f\t%.3f\n", p.Barcode, p.Name, p.Price, p.Stock)
		}
		return nil

	case "summary":
		if len(args) < 1 {
			return fmt.Errorf("summary: date argument required")
		}
		return reports.Summary(ctx, os.Stdout, args[0])

	case "top":
		limit := 20
		if len(args) > 0 {
			limit, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("top: parse limit: %w", err)
			}
		}
		return reports.Top(ctx, os.Stdout, limit)

	case "backup":
		if len(args) < 1 {
			return cli.ErrPathRequired
		}
		return maintenance.Backup(args[0])

	case "restore":
		if len(args) < 1 {
			return cli.ErrPathRequired
		}
		return maintenance.Restore(args[0])

	case "clear-transactions":
		return maintenance.ClearTransactions(ctx)

	case "expenses":
		expenses, err := contacts.ListExpenses(ctx)
		if err != nil {
			return err
		}
		for _, e := range expenses {
			fmt.Printf("%s\t%s\t%.2f\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Concept, e.Amount)
		}
		return nil

	case "expense":
		if len(args) < 2 {
			return fmt.Errorf("expense: concept and amount arguments required")
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("expense: parse amount: %w", err)
		}
		_, err = contacts.AddExpense(ctx, args[0], amount)
		return err

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// storeFile adapts the platform backup helpers to the CLI port. Restore
// closes the live handle first so the file can be replaced safely; the
// process exits right after, so the handle is not reopened.
type storeFile struct {
	path   string
	handle *sql.DB
}

func (s *storeFile) Backup(dst string) error {
	return db.Backup(s.path, dst)
}

func (s *storeFile) Restore(src string) error {
	if err := s.handle.Close(); err != nil {
		return fmt.Errorf("close store before restore: %w", err)
	}
	return db.Restore(s.path, src)
}

// Command ledger_seed loads a chart of accounts from a YAML, JSON or TOML file
// into the ledger database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_ledger/pkg/database"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type chartFile struct {
	Accounts []dto.CreateAccountRequest `mapstructure:"accounts"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	file := pflag.StringP("file", "f", "config/chart_of_accounts.yaml", "chart of accounts file")
	skipMigrations := pflag.Bool("skip-migrations", false, "do not apply pending migrations first")
	timeout := pflag.Duration("timeout", time.Minute, "overall time limit")
	pflag.Parse()

	if err := run(*file, *skipMigrations, *timeout, logger); err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(file string, skipMigrations bool, timeout time.Duration, logger *slog.Logger) error {
	chart, err := readChart(file)
	if err != nil {
		return err
	}
	logger.Info("Chart of accounts loaded", slog.String("file", file), slog.Int("accounts", len(chart.Accounts)))

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	if !skipMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool, nil)
	inserted, err := services.NewSeedService(repos.AccountRepo).SeedAccounts(ctx, chart.Accounts)
	if err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	logger.Info("Chart of accounts seeded", slog.Int("inserted", inserted))
	return nil
}

// readChart decodes the accounts list of file. The format follows the extension.
func readChart(file string) (*chartFile, error) {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var chart chartFile
	if err := v.Unmarshal(&chart); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	if len(chart.Accounts) == 0 {
		return nil, fmt.Errorf("%s lists no accounts", file)
	}
	return &chart, nil
}

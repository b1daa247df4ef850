package cmd

import (
	"fmt"

	"payment-sync/feature/integrity/checks"
	paymentsync "payment-sync/feature/sync"
	"payment-sync/feature/sync/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCheck bool

// migrateCmd creates or updates the local tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the local tables",
	Long: `Creates the clientes, cobrancas, parcelamentos and sync_runs tables, adding
missing columns to existing ones. With --check nothing is changed and the
missing columns are listed instead.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false, "Only list missing columns")
	RootCmd.AddCommand(migrateCmd)
}

// schemaModels lists every table payment-sync owns.
func schemaModels() []any {
	return append(paymentsync.Tables(), &models.SyncRun{})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	db, err := a.connectDatabase()
	if err != nil {
		return err
	}

	tables := schemaModels()
	if !migrateCheck {
		if err := checks.FixSchema(db, tables...); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		a.logger.Info("Tables migrated", zap.Int("count", len(tables)), zap.String("driver", a.cfg.Database.Driver))
	}

	report, err := checks.CheckSchema(db, tables...)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	for _, msg := range report.Errors {
		a.logger.Error("Schema inspection error", zap.String("error", msg))
	}

	incomplete := 0
	for name, tbl := range report.Tables {
		switch tbl.Status {
		case checks.StatusOK:
			continue
		case checks.StatusMissing:
			a.logger.Warn("Table missing", zap.String("table", name))
		default:
			a.logger.Warn("Columns missing", zap.String("table", name), zap.Strings("columns", tbl.MissingColumns))
		}
		incomplete++
	}

	if !report.Matched {
		return fmt.Errorf("%d tables are not up to date", incomplete)
	}
	a.logger.Info("Schema is up to date")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"payment-sync/feature/integrity/checks"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	integrityFix  bool
	integrityJSON bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the local schema, the report archive and the provider credentials",
	Long: `Runs the operational checks a sync depends on. With --fix, missing tables,
columns and the archive bucket are created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check and fix the local tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// archiveCmd represents the integrity archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check and create the report archive bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// providerCmd represents the integrity provider command
var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Probe the provider credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	integrityCmd.PersistentFlags().BoolVar(&integrityFix, "fix", false, "Create missing tables, columns and bucket")
	integrityCmd.PersistentFlags().BoolVar(&integrityJSON, "json", false, "Print the combined report as JSON")

	integrityCmd.AddCommand(schemaCmd, archiveCmd, providerCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, doSchema, doArchive, doProvider bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a, err := newApp(doProvider)
	if err != nil {
		return err
	}
	defer a.close()
	l := a.logger

	report := make(map[string]any)
	healthy := true

	if doSchema {
		db, err := a.connectDatabase()
		if err != nil {
			return err
		}
		models := schemaModels()

		res, err := checks.CheckSchema(db, models...)
		if err != nil {
			return err
		}
		if !res.Matched && integrityFix {
			l.Info("Attempting to fix schema")
			if err := checks.FixSchema(db, models...); err != nil {
				return err
			}
			if res, err = checks.CheckSchema(db, models...); err != nil {
				return err
			}
		}
		for name, tbl := range res.Tables {
			if tbl.Status != checks.StatusOK {
				l.Warn("Table not up to date", zap.String("table", name), zap.String("status", tbl.Status), zap.Strings("missing_columns", tbl.MissingColumns))
			}
		}
		l.Info("Schema check completed", zap.Bool("matched", res.Matched), zap.Int("tables", len(res.Tables)))
		healthy = healthy && res.Matched
		report["schema"] = res
	}

	if doArchive {
		client, err := a.storageClient()
		if err != nil {
			return err
		}
		res, err := checks.CheckArchive(ctx, client, a.cfg.Storage.Bucket)
		if err != nil {
			return err
		}
		if res.Enabled && !res.Exists && integrityFix {
			l.Info("Creating archive bucket", zap.String("bucket", res.Bucket))
			if err := checks.FixArchive(ctx, client, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
				return err
			}
			res.Exists = true
		}
		if !res.Enabled {
			l.Info("Archive disabled, skipping bucket check")
		} else {
			l.Info("Archive check completed", zap.String("bucket", res.Bucket), zap.Bool("exists", res.Exists))
			healthy = healthy && res.Exists
		}
		report["archive"] = res
	}

	if doProvider {
		res, err := checks.CheckProvider(ctx, a.client)
		if err != nil {
			return err
		}
		if res.Error != "" {
			l.Error("Provider probe failed", zap.Bool("reachable", res.Reachable), zap.String("error", res.Error))
			healthy = false
		} else {
			l.Info("Provider probe succeeded", zap.String("account", res.Account))
		}
		report["provider"] = res
	}

	if integrityJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	}

	if !healthy {
		return fmt.Errorf("integrity checks failed")
	}
	return nil
}

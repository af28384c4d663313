package cmd

import (
	"context"
	"fmt"

	"gig-profile/core/config"
	"gig-profile/core/database"
	"gig-profile/core/logger"
	"gig-profile/core/storage"
	"gig-profile/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the users database and the profile bucket",
	Long:  `Checks that the users table matches the account model and that the bucket used by the object cache exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the users table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the profile bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, storageCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket if it is missing")
}

func runIntegrityChecks(ctx context.Context, runSchema, runStorage bool) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	var store storage.Client
	if runStorage {
		if store, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	var db *gorm.DB
	if runSchema {
		if db, err = database.Connect(cfg.Database); err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, cfg.Storage.Region, logg, db)
	healthy := true

	if runSchema {
		logg.Info("Checking users schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		for table, t := range report.Tables {
			if t.Status == "ok" {
				logg.Info("Table is intact.", zap.String("table", table))
				continue
			}
			healthy = false
			logg.Warn("Table does not match model",
				zap.String("table", table),
				zap.String("status", t.Status),
				zap.Strings("missing_columns", t.MissingColumns))
		}
		for _, e := range report.Errors {
			logg.Error("Schema inspection error", zap.String("error", e))
		}
		if !report.Matched {
			logg.Info("Run serve once to migrate the users table.")
		}
	}

	if runStorage {
		logg.Info("Checking profile bucket...", zap.String("bucket", cfg.Storage.Bucket))
		exists, err := svc.CheckStorage(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}

		switch {
		case exists:
			logg.Info("Bucket exists.")
		case fixFlag:
			logg.Info("Creating bucket...")
			if err := svc.FixStorage(ctx); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
		default:
			healthy = false
			logg.Warn("Bucket is missing. Run with --fix to create it.")
		}
	}

	if !healthy {
		return fmt.Errorf("integrity checks found problems")
	}
	return nil
}

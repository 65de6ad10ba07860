package cmd

import (
	"context"
	"errors"

	"game-catalog/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd checks the schema and object storage.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and object storage",
	Long:  `Verifies that every catalog table has its mapped columns and that the bucket and registry document are usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		l := rt.logger

		svc := integrity.NewService(rt.db, rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Storage.RegistryObject, l)

		var failures []error
		schema, err := svc.CheckSchema(ctx)
		if err != nil {
			return err
		}
		for table, report := range schema.Tables {
			if report.Status != "ok" {
				l.Warn("Table drift",
					zap.String("table", table),
					zap.Bool("exists", report.Exists),
					zap.Strings("missing_columns", report.MissingColumns),
				)
			}
		}
		if !schema.Matched {
			failures = append(failures, errors.New("schema does not match the catalog models"))
		} else {
			l.Info("Schema check passed", zap.Int("tables", len(schema.Tables)))
		}

		storage := svc.CheckStorage(ctx)
		l.Info("Storage check",
			zap.String("bucket", storage.Bucket),
			zap.Bool("bucket_exists", storage.BucketExists),
			zap.Bool("registry_present", storage.RegistryPresent),
			zap.Strings("errors", storage.Errors),
		)
		if !storage.Healthy() {
			failures = append(failures, errors.New("storage check failed"))
		}

		return errors.Join(failures...)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}

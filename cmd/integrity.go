package cmd

import (
	"encoding/json"
	"fmt"

	"georecon/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	fixFlag     bool
	verifyFlag  bool
	fixFeedFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on snapshot storage and the gazetteer feed",
	Long:  `Checks that the snapshot bucket holds a loadable index and that the feed database has the expected schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		if err := runSnapshotCheck(cmd, false, false); err != nil {
			return err
		}
		return runFeedCheck(false)
	},
}

// snapshotCheckCmd represents the integrity snapshot command
var snapshotCheckCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Check (and optionally fix) the snapshot bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshotCheck(cmd, verifyFlag, fixFlag)
	},
}

// feedCheckCmd represents the integrity feed command
var feedCheckCmd = &cobra.Command{
	Use:   "feed",
	Short: "Check the gazetteer feed schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeedCheck(fixFeedFlag)
	},
}

func runSnapshotCheck(cmd *cobra.Command, verify, fix bool) error {
	ctx := cmd.Context()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	store, err := e.store()
	if err != nil {
		return err
	}
	svc := integrity.NewService(store, nil, e.cfg.Ingest, e.log)

	if fix {
		if err := svc.FixSnapshot(ctx); err != nil {
			return fmt.Errorf("failed to fix snapshot bucket: %w", err)
		}
	}

	report, err := svc.CheckSnapshot(ctx, verify)
	if err != nil {
		return fmt.Errorf("snapshot check failed: %w", err)
	}

	fields := []zap.Field{
		zap.String("bucket", report.Bucket),
		zap.String("status", report.Status),
		zap.Int("snapshots", report.Snapshots),
	}
	if report.Latest != "" {
		fields = append(fields, zap.String("latest", report.Latest), zap.Int64("size", report.LatestSize))
	}
	if report.Verified {
		fields = append(fields, zap.String("generation", report.Generation), zap.Int("nodes", report.Nodes))
	}
	if report.Status == "ok" {
		e.log.Info("Snapshot check passed", fields...)
	} else {
		e.log.Warn("Snapshot check found issues", append(fields, zap.String("error", report.Error))...)
	}
	return nil
}

func runFeedCheck(fix bool) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	var db *gorm.DB
	if db, err = e.database(); err != nil {
		return err
	}

	svc := integrity.NewService(nil, db, e.cfg.Ingest, e.log)
	report, err := svc.CheckFeed()
	if err != nil {
		return fmt.Errorf("feed check failed: %w", err)
	}

	if !report.Matched && fix {
		if err := svc.FixFeed(); err != nil {
			return fmt.Errorf("failed to migrate feed tables: %w", err)
		}
		if report, err = svc.CheckFeed(); err != nil {
			return fmt.Errorf("feed check failed: %w", err)
		}
	}

	if report.Matched {
		e.log.Info("Feed schema matches", zap.String("driver", report.Driver))
		return nil
	}

	data, err := json.MarshalIndent(report.Tables, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	e.log.Warn("Feed schema mismatch", zap.String("driver", report.Driver), zap.Strings("errors", report.Errors))
	fmt.Println(string(data))
	return nil
}

func init() {
	snapshotCheckCmd.Flags().BoolVar(&verifyFlag, "verify", false, "download and decode the latest snapshot")
	snapshotCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "create the bucket if it is missing")
	feedCheckCmd.Flags().BoolVar(&fixFeedFlag, "fix", false, "create missing feed tables and columns")

	integrityCmd.AddCommand(snapshotCheckCmd)
	integrityCmd.AddCommand(feedCheckCmd)
	RootCmd.AddCommand(integrityCmd)
}

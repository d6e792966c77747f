package cmd

import (
	"errors"
	"fmt"
	"time"

	"georecon/core/gazetteer"
	"georecon/core/ingest"
	"georecon/core/snapshot"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildOut      string
	buildNoUpload bool
)

// buildCmd ingests the gazetteer feed and writes an index snapshot.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a name index snapshot from the gazetteer database",
	Long: `Streams the gazetteer feed from the database, builds the name index and
uploads it as a new snapshot version. Older versions beyond SNAPSHOT_KEEP are pruned.

Examples:
  # Build and upload
  build

  # Build to a local file only
  build --out index.gzix --no-upload`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		if buildNoUpload && buildOut == "" {
			return errors.New("--no-upload needs --out")
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		feed, err := e.feed()
		if err != nil {
			return err
		}

		e.log.Info("Building index from feed (this might take a while)...",
			zap.Uint64("min_population", e.cfg.Ingest.MinPopulation))

		index, report, err := ingest.Load(ctx, feed, gazetteer.BuildOptions{Logger: e.log})
		if err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}

		meta := snapshot.Meta{Generation: uuid.NewString(), Built: time.Now().UTC()}

		if buildOut != "" {
			if err := snapshot.SaveFile(buildOut, index, meta); err != nil {
				return fmt.Errorf("failed to save snapshot file: %w", err)
			}
			e.log.Info("Snapshot written", zap.String("file", buildOut))
		}

		var object string
		var pruned int
		if !buildNoUpload {
			store, err := e.store()
			if err != nil {
				return err
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return err
			}
			if object, err = store.Save(ctx, index, meta); err != nil {
				return err
			}
			if pruned, err = store.Prune(ctx, e.cfg.Snapshot.Keep); err != nil {
				e.log.Warn("Failed to prune old snapshots", zap.Error(err))
			}
		}

		executionTime := time.Since(startTime)

		fmt.Println("\n=== Index Build ===")
		fmt.Printf("Generation: %s\n", meta.Generation)
		fmt.Printf("Nodes: %d\n", report.Nodes)
		fmt.Printf("Names: %d\n", report.Names)
		fmt.Printf("Skipped: %d\n", len(report.Skipped))
		if object != "" {
			fmt.Printf("Snapshot: %s/%s (pruned %d)\n", e.cfg.Storage.Bucket, object, pruned)
		}
		fmt.Printf("Execution Time: %s\n", executionTime.String())

		e.log.Info("Index build completed",
			zap.String("generation", meta.Generation),
			zap.Int("nodes", report.Nodes),
			zap.Int("names", report.Names),
			zap.Int("skipped", len(report.Skipped)),
			zap.Duration("execution_time", executionTime),
		)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "also write the snapshot to this file")
	buildCmd.Flags().BoolVar(&buildNoUpload, "no-upload", false, "skip uploading to object storage")
	RootCmd.AddCommand(buildCmd)
}

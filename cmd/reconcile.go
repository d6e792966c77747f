package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"georecon/core/reconcile"
	"georecon/feature/places"

	"github.com/spf13/cobra"
)

var (
	reconcileFrom     string
	reconcileFile     string
	reconcileField    string
	reconcileType     string
	reconcileStrategy string
	reconcileKeep     bool
	reconcileExplain  bool
	reconcileInput    string
)

// reconcileCmd resolves one access point, or a file of them, against the index.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [atom...]",
	Short: "Reconcile place-name atoms to gazetteer places",
	Long: `Resolves the given atoms (or a delimited --field) to the places they most
likely denote and prints each result with its lineage.

Examples:
  # Atoms as arguments
  reconcile Amsterdam Netherlands

  # A raw access-point field
  reconcile --field "Limburg (Netherlands) -- Maastricht"

  # One field per line, JSON batch report
  reconcile --input fields.txt --strategy deep`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(args) == 0 && reconcileField == "" && reconcileInput == "" {
			return errors.New("give atoms, --field or --input")
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		service, err := e.openService(ctx, reconcileFrom, reconcileFile)
		if err != nil {
			return err
		}

		opts := service.Rules().Defaults()
		if cmd.Flags().Changed("strategy") {
			if opts.Strategy, err = reconcile.ParseStrategy(reconcileStrategy); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("keep-ancestors") {
			opts.KeepAncestors = reconcileKeep
		}

		if reconcileInput != "" {
			return reconcileBatchFile(cmd, service, opts)
		}

		rules := service.Rules()
		if !rules.TypeAllowed(reconcileType) {
			fmt.Printf("Access-point type %q is not reconciled\n", reconcileType)
			return nil
		}

		atoms := args
		if len(atoms) == 0 {
			if rules.IsPerson(reconcileField) {
				fmt.Println("Field looks like a person name; nothing to reconcile")
				return nil
			}
			atoms = reconcile.SplitField(reconcileField)
		}

		st, err := service.Current()
		if err != nil {
			return err
		}
		if reconcileExplain {
			printTraces(st.Explain(atoms))
		}

		nodes, _ := st.Reconcile(ctx, atoms, opts)

		fmt.Printf("\n=== %d place(s), strategy %s ===\n", len(nodes), opts.Strategy)
		for _, n := range nodes {
			fmt.Printf("%s\n%s\n\n", n, n.LineageString())
		}
		return nil
	},
}

func printTraces(traces []reconcile.AtomTrace) {
	fmt.Println("=== Atoms ===")
	for _, t := range traces {
		if t.Dropped != reconcile.DropNone {
			fmt.Printf("%q dropped (%s)\n", t.Raw, t.Dropped)
			continue
		}
		fmt.Printf("%q -> %d candidate(s), %d filtered\n", t.Text, len(t.Candidates), t.Filtered)
		for _, c := range t.Candidates {
			fmt.Printf("  %s\n", c)
		}
	}
}

// reconcileBatchFile reconciles every non-empty line of --input and prints a JSON report.
func reconcileBatchFile(cmd *cobra.Command, service *places.Service, opts reconcile.Options) error {
	f, err := os.Open(reconcileInput)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var items []reconcile.BatchItem
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		field := strings.TrimSpace(scanner.Text())
		if field == "" {
			continue
		}
		items = append(items, reconcile.BatchItem{ID: strconv.Itoa(line), Field: field, Type: reconcileType})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result, err := service.ReconcileBatch(cmd.Context(), items, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileFrom, "from", fromAuto, "index source: auto, file, snapshot or feed")
	reconcileCmd.Flags().StringVar(&reconcileFile, "file", "", "snapshot file for the file source (default SNAPSHOT_FILE)")
	reconcileCmd.Flags().StringVar(&reconcileField, "field", "", "raw access-point field to split into atoms")
	reconcileCmd.Flags().StringVar(&reconcileType, "type", "", "access-point type, checked against the allowed types")
	reconcileCmd.Flags().StringVar(&reconcileStrategy, "strategy", "", "ancestor-count, shallow or deep (default from rules)")
	reconcileCmd.Flags().BoolVar(&reconcileKeep, "keep-ancestors", false, "keep results that are ancestors of other results")
	reconcileCmd.Flags().BoolVar(&reconcileExplain, "explain", false, "print how each atom was processed")
	reconcileCmd.Flags().StringVar(&reconcileInput, "input", "", "file with one field per line; prints a JSON batch report")
	RootCmd.AddCommand(reconcileCmd)
}


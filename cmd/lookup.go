package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"georecon/feature/places"

	"github.com/spf13/cobra"
)

var (
	lookupFrom string
	lookupFile string
)

// lookupCmd prints every place registered under a name.
var lookupCmd = &cobra.Command{
	Use:   "lookup [name...]",
	Short: "Look up place names in the index",
	Long: `Prints the lineage of every place registered under each name, most relevant first.
Without arguments it reads names from stdin until EOF or an empty line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		service, err := e.openService(cmd.Context(), lookupFrom, lookupFile)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			for _, name := range args {
				if err := printLookup(os.Stdout, service, name); err != nil {
					return err
				}
			}
			return nil
		}
		return lookupLoop(os.Stdin, os.Stdout, service)
	},
}

func lookupLoop(in io.Reader, out io.Writer, service *places.Service) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			return nil
		}
		if err := printLookup(out, service, name); err != nil {
			return err
		}
	}
}

func printLookup(out io.Writer, service *places.Service, name string) error {
	nodes, err := service.Lookup(name)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Fprintf(out, "%s: no match\n", name)
		return nil
	}
	for _, n := range nodes {
		fmt.Fprintf(out, "%s\n%s\n\n", n, n.LineageString())
	}
	return nil
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFrom, "from", fromAuto, "index source: auto, file, snapshot or feed")
	lookupCmd.Flags().StringVar(&lookupFile, "file", "", "snapshot file for the file source (default SNAPSHOT_FILE)")
	RootCmd.AddCommand(lookupCmd)
}

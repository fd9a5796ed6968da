// Command als is the ALS/CTX codec CLI.
//
// Usage:
//
//	als compress [--input file] [--output file] [--format csv|json|auto] [flags]
//	als decompress [--input file] [--output file] [--format csv|json]
//	als info [--input file]
//	als logs [--input file] [--output file] [flags]
//
// If --input/-i is omitted, reads from stdin; if --output/-o is omitted,
// writes to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "als",
		Short:         "als - Adaptive Logic Stream codec",
		Long:          "als compresses tabular data (CSV/JSON) into the ALS textual codec, falling back to the row-major CTX format when ALS doesn't pay for itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCompressCmd())
	root.AddCommand(newDecompressCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newLogsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("als %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "als: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/als-project/als/als"
	"github.com/als-project/als/alserr"
	"github.com/als-project/als/ctx"
)

func newInfoCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print structural information about an ALS or CTX document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(inputPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file (default: stdin)")
	return cmd
}

func runInfo(inputPath string, out io.Writer) error {
	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return alserr.Wrap(alserr.KindIO, err, "reading input")
	}

	text := string(raw)
	trimmed := strings.TrimSpace(text)

	var doc *als.Document
	if strings.HasPrefix(trimmed, "!ctx") {
		doc, err = ctx.Parse(text)
	} else {
		doc, err = als.NewParser().Parse(text)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "format:      %s\n", doc.FormatIndicator.VersionPrefix())
	fmt.Fprintf(out, "version:     %d\n", doc.Version)
	fmt.Fprintf(out, "columns:     %d\n", doc.ColumnCount())
	fmt.Fprintf(out, "rows:        %d\n", doc.RowCount())
	fmt.Fprintf(out, "dictionaries: %d\n", len(doc.Dictionaries))
	for name, entries := range doc.Dictionaries {
		fmt.Fprintf(out, "  %s: %d entries\n", name, len(entries))
	}
	fmt.Fprintf(out, "schema:      %s\n", strings.Join(doc.Schema, ", "))
	for i, name := range doc.Schema {
		fmt.Fprintf(out, "  %-20s %d operators, %d values\n",
			name, doc.Streams[i].OperatorCount(), doc.Streams[i].ExpandedCount())
	}
	fmt.Fprintf(out, "content_hash: %016x\n", doc.ContentHash())
	fmt.Fprintf(out, "wire_bytes:   %d\n", len(text))
	return nil
}

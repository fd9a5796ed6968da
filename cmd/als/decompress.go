package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/als"
	"github.com/als-project/als/ctx"
	"github.com/als-project/als/tabular"
)

func newDecompressCmd() *cobra.Command {
	var inputPath, outputPath, format string
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:   "decompress",
		Short: "Decompress an ALS or CTX document back to CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(inputPath, outputPath, format, verbose, quiet)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress all but error-level logging")

	return cmd
}

func runDecompress(inputPath, outputPath, format string, verbose, quiet bool) error {
	logger := newLogger(verbose, quiet)
	defer logger.Sync()

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return alserr.Wrap(alserr.KindIO, err, "reading input")
	}

	data, doc, err := decodeDocument(string(raw))
	if err != nil {
		return err
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	switch strings.ToLower(format) {
	case "csv":
		if err := tabular.ToCSV(out, data); err != nil {
			return alserr.Wrap(alserr.KindIO, err, "writing csv output")
		}
	case "json":
		if err := tabular.ToJSON(out, data); err != nil {
			return alserr.Wrap(alserr.KindIO, err, "writing json output")
		}
	default:
		return alserr.New(alserr.KindSyntax, "unknown output format %q (want csv or json)", format)
	}

	logger.Info("decompression complete",
		zap.String("format", doc.FormatIndicator.VersionPrefix()),
		zap.Int("rows", data.RowCount),
		zap.Int("columns", data.ColumnCount()),
	)
	return nil
}

// decodeDocument detects whether text is an ALS or CTX document by its
// version prefix and parses it, then expands every stream into tabular
// data using the document's own schema.
func decodeDocument(text string) (tabular.Data, *als.Document, error) {
	trimmed := strings.TrimSpace(text)
	var doc *als.Document
	var err error
	if strings.HasPrefix(trimmed, "!ctx") {
		doc, err = ctx.Parse(text)
	} else {
		doc, err = als.NewParser().Parse(text)
	}
	if err != nil {
		return tabular.Data{}, nil, err
	}

	columns, err := expandColumns(doc)
	if err != nil {
		return tabular.Data{}, nil, err
	}
	data, err := tabular.New(columns)
	return data, doc, err
}

// expandColumns resolves each schema column's operator stream to its
// original values and re-infers each one's type (Integer, Float, Boolean, or
// String), since the wire format carries every value as plain text.
func expandColumns(doc *als.Document) ([]tabular.Column, error) {
	dictionary, _ := doc.DefaultDictionary()
	columns := make([]tabular.Column, len(doc.Schema))
	for i, name := range doc.Schema {
		values, err := doc.Streams[i].Expand(dictionary)
		if err != nil {
			return nil, err
		}
		cells := make([]tabular.Value, len(values))
		for j, v := range values {
			cells[j] = tabular.InferValueFromString(v)
		}
		columns[i] = tabular.NewColumn(name, cells)
	}
	return columns, nil
}

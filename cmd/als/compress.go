package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/als"
	"github.com/als-project/als/compressor"
	"github.com/als-project/als/ctx"
	"github.com/als-project/als/tabular"
)

func newCompressCmd() *cobra.Command {
	var inputPath, outputPath, format, configPath string
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress CSV or JSON tabular data into ALS (or CTX fallback)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(inputPath, outputPath, format, configPath, verbose, quiet)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "auto", "input format: csv, json, or auto")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a compressor config file")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress all but error-level logging")

	return cmd
}

func runCompress(inputPath, outputPath, format, configPath string, verbose, quiet bool) error {
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

	data, err := parseTabular(string(raw), format)
	if err != nil {
		return err
	}

	cfg, err := loadCompressorConfig(configPath)
	if err != nil {
		return err
	}

	c := compressor.NewWithConfig(cfg).WithLogger(logger)
	doc, err := c.Compress(data)
	if err != nil {
		return err
	}

	var text string
	if doc.IsCtx() {
		text, err = ctx.Serialize(doc)
	} else {
		text = als.Serializer{}.Serialize(doc)
	}
	if err != nil {
		return err
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.WriteString(out, text); err != nil {
		return alserr.Wrap(alserr.KindIO, err, "writing output")
	}

	snap := c.Stats().Snapshot()
	logger.Info("compression complete",
		zap.String("format", doc.FormatIndicator.VersionPrefix()),
		zap.Int("rows", data.RowCount),
		zap.Int("columns", data.ColumnCount()),
		zap.Uint64("input_bytes", snap.InputBytes),
		zap.Uint64("output_bytes", snap.OutputBytes),
	)
	return nil
}

// parseTabular dispatches to the CSV or JSON adapter, sniffing content when
// format is "auto": a leading '[' or '{' (after whitespace) means JSON,
// anything else is treated as CSV.
func parseTabular(text, format string) (tabular.Data, error) {
	switch strings.ToLower(format) {
	case "csv":
		return tabular.FromCSV(strings.NewReader(text))
	case "json":
		return tabular.FromJSON(strings.NewReader(text))
	case "auto", "":
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			return tabular.FromJSON(strings.NewReader(text))
		}
		return tabular.FromCSV(strings.NewReader(text))
	default:
		return tabular.Data{}, alserr.New(alserr.KindSyntax, "unknown format %q (want csv, json, or auto)", format)
	}
}

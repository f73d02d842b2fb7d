package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/banshee-data/spotmotion/internal/fsutil"
	"github.com/banshee-data/spotmotion/internal/report"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"github.com/spf13/cobra"
)

// artifacts selects the files simulate writes under its output directory.
type artifacts struct {
	dir  string
	png  bool
	html bool
	csv  bool
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run every order in every layer and report the MSE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}
			res, err := sweep.RunParams(p, nil, cfg.GetOrders(), cfg.GetSeed())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"result":  res.Compact(),
					"summary": sweep.Summarise(res),
				})
			}
			if err := printRun(out, res); err != nil {
				return err
			}

			var a artifacts
			a.dir, _ = cmd.Flags().GetString("out")
			a.png, _ = cmd.Flags().GetBool("png")
			a.html, _ = cmd.Flags().GetBool("html")
			a.csv, _ = cmd.Flags().GetBool("csv")
			written, err := writeArtifacts(fsutil.OSFileSystem{}, a, res)
			for _, path := range written {
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			return err
		},
	}

	cmd.Flags().String("out", "out", "Output directory for --png, --html and --csv")
	cmd.Flags().Bool("png", false, "Write one PNG chart per layer")
	cmd.Flags().Bool("html", false, "Write an interactive HTML report")
	cmd.Flags().Bool("csv", false, "Write per-layer MSE and profile CSVs")
	cmd.Flags().Bool("json", false, "Print the result as JSON instead of a table")
	return cmd
}

// printRun writes the per-layer MSE table followed by the order summary.
func printRun(w io.Writer, res *sweep.Result) error {
	fmt.Fprintf(w, "run %s\n", res.RunID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tSTART\tORDER\tMSE")
	for _, lr := range res.Layers {
		for _, e := range lr.Entries {
			fmt.Fprintf(tw, "%d\t%.2f\t%s\t%.6f\n", lr.Index+1, lr.Start, e.Label, e.MSE)
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ORDER\tMEAN\tSTDDEV\tWINS")
	for _, s := range sweep.Summarise(res) {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%d\n", s.Label, s.Mean, s.Stddev, s.Wins)
	}
	return tw.Flush()
}

// writeArtifacts writes the selected outputs and returns every path written,
// including those written before a failure.
func writeArtifacts(fsys fsutil.FileSystem, a artifacts, res *sweep.Result) ([]string, error) {
	var written []string
	if a.csv {
		files := []struct {
			name  string
			write func(io.Writer, *sweep.Result) error
		}{
			{"layers.csv", sweep.WriteLayerCSV},
			{"profiles.csv", sweep.WriteProfileCSV},
		}
		for _, f := range files {
			path := filepath.Join(a.dir, f.name)
			if err := fsutil.WriteFileWith(fsys, path, func(w io.Writer) error { return f.write(w, res) }); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	if a.png {
		paths, err := report.SavePNGs(fsys, a.dir, res)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}
	if a.html {
		path := filepath.Join(a.dir, report.HTMLName)
		if err := report.SaveHTML(fsys, path, res); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

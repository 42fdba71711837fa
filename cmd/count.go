package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/weldcount/internal/engine"
	"github.com/sells-group/weldcount/internal/export"
	"github.com/sells-group/weldcount/internal/model"
	"github.com/sells-group/weldcount/internal/specdb"
)

var countCmd = &cobra.Command{
	Use:   "count <listing>...",
	Short: "Estimate total welds for one or more listing files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("count"); err != nil {
			return err
		}

		specPath, _ := cmd.Flags().GetString("spec")
		sheet, _ := cmd.Flags().GetString("spec-sheet")
		skipRows, _ := cmd.Flags().GetInt("spec-skip-rows")
		factorsPath, _ := cmd.Flags().GetString("factors")
		charset, _ := cmd.Flags().GetString("charset")
		outDir, _ := cmd.Flags().GetString("out-dir")
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")
		project, _ := cmd.Flags().GetString("project")

		table, err := loadSpecTable(specPath, sheet, skipRows)
		if err != nil {
			return err
		}

		eng := engine.New(table)
		eng.Charset = charsetOrDefault(charset)
		if factorsPath == "" {
			factorsPath = cfg.Engine.FactorsPath
		}
		if factorsPath != "" {
			factors, err := engine.LoadFactors(factorsPath)
			if err != nil {
				return err
			}
			eng.Factors = factors
		}

		res, err := eng.RunFiles(ctx, args)
		if err != nil {
			return err
		}

		formatTally(os.Stdout, res.Tally)

		if outDir != "" {
			if err := exportResult(res, outDir, exportFormat(format)); err != nil {
				return err
			}
		}

		if save {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			run := model.Run{
				ID:        uuid.NewString(),
				Project:   project,
				Listings:  args,
				SpecTable: specPath,
				Status:    runStatus(res.Tally),
				Tally:     &res.Tally,
				CreatedAt: time.Now().UTC(),
			}
			if err := st.SaveRun(ctx, run); err != nil {
				return err
			}
			zap.L().Info("count: run saved", zap.String("run", run.ID))
			fmt.Fprintf(os.Stdout, "\nRun saved: %s\n", run.ID)
		}

		return nil
	},
}

func init() {
	countCmd.Flags().String("spec", "", "specification table (.xlsx or .csv)")
	countCmd.Flags().String("spec-sheet", "", "worksheet name for xlsx spec tables (default first sheet)")
	countCmd.Flags().Int("spec-skip-rows", 0, "banner rows above the spec table header")
	countCmd.Flags().String("factors", "", "expected-length factors YAML (default built-in)")
	countCmd.Flags().String("charset", "", "listing file charset (default from config)")
	countCmd.Flags().String("out-dir", "", "write per-entity result files to this directory")
	countCmd.Flags().String("format", "", "export format: csv or xlsx (default from config)")
	countCmd.Flags().Bool("save", false, "persist the run to the store")
	countCmd.Flags().String("project", "", "project label for saved runs")
	_ = countCmd.MarkFlagRequired("spec")
	rootCmd.AddCommand(countCmd)
}

// loadSpecTable loads a specification table, picking the codec by extension.
func loadSpecTable(path, sheet string, skipRows int) (*specdb.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return specdb.LoadXLSX(path, specdb.XLSXOptions{SheetName: sheet, SkipRows: skipRows})
	case ".csv", ".txt":
		return specdb.LoadCSVFile(path, specdb.CSVOptions{})
	default:
		return nil, eris.Errorf("count: unsupported spec table format: %s", path)
	}
}

func charsetOrDefault(charset string) string {
	if charset != "" {
		return charset
	}
	return cfg.Engine.Charset
}

func exportFormat(format string) string {
	if format != "" {
		return format
	}
	if cfg.Export.Format != "" {
		return cfg.Export.Format
	}
	return "csv"
}

// runStatus maps a tally to a persisted run status. Dropped branches mean
// the count is a floor, not an exact figure.
func runStatus(t model.WeldTally) model.RunStatus {
	if t.DroppedBranches > 0 {
		return model.RunStatusPartial
	}
	return model.RunStatusComplete
}

// exportResult writes the per-entity row sets in the requested format.
func exportResult(res *engine.Result, dir, format string) error {
	switch format {
	case "csv":
		paths, err := export.WriteCSVDir(res, dir)
		if err != nil {
			return err
		}
		zap.L().Info("count: results exported", zap.Int("files", len(paths)), zap.String("dir", dir))
		return nil
	case "xlsx":
		path := filepath.Join(dir, "weldcount.xlsx")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "count: create export dir")
		}
		if err := export.WriteXLSX(res, path); err != nil {
			return err
		}
		zap.L().Info("count: results exported", zap.String("path", path))
		return nil
	default:
		return eris.Errorf("count: unsupported export format: %s", format)
	}
}

// formatTally writes the weld tally and its audit terms to w.
func formatTally(out io.Writer, t model.WeldTally) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Component welds:\t%d\n", t.ComponentWelds)
	_, _ = fmt.Fprintf(w, "BWD branch ends:\t%d\n", t.BWDBranchEnds)
	_, _ = fmt.Fprintf(w, "Touching pairs:\t-%d\n", t.TouchingPairs)
	_, _ = fmt.Fprintf(w, "Components at BWD ends:\t-%d\n", t.ComponentsAtBWDEnds)
	_, _ = fmt.Fprintf(w, "Total welds:\t%d\n", t.Total)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Branches:\t%d\n", t.Branches)
	_, _ = fmt.Fprintf(w, "Components:\t%d\n", t.Components)
	_, _ = fmt.Fprintf(w, "Connected branch pairs:\t%d\n", t.ConnectedBranchPairs)
	if t.UnmatchedSpec > 0 {
		_, _ = fmt.Fprintf(w, "Unmatched in spec:\t%d\n", t.UnmatchedSpec)
	}
	if t.OletBWDPorts > 0 {
		_, _ = fmt.Fprintf(w, "OLET BWD ports (review):\t%d\n", t.OletBWDPorts)
	}
	if t.DroppedBranches > 0 {
		_, _ = fmt.Fprintf(w, "Dropped branches:\t%d\n", t.DroppedBranches)
	}
	_ = w.Flush()
}

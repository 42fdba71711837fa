package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/weldcount/internal/engine"
)

var exportCmd = &cobra.Command{
	Use:   "export <listing>...",
	Short: "Run the count and write per-entity result files only",
	Long:  "Same pipeline as count, but skips the terminal tally and only writes the component, adjacency, branch-end, and tally row sets.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("count"); err != nil {
			return err
		}

		specPath, _ := cmd.Flags().GetString("spec")
		sheet, _ := cmd.Flags().GetString("spec-sheet")
		skipRows, _ := cmd.Flags().GetInt("spec-skip-rows")
		charset, _ := cmd.Flags().GetString("charset")
		outDir, _ := cmd.Flags().GetString("out-dir")
		format, _ := cmd.Flags().GetString("format")

		table, err := loadSpecTable(specPath, sheet, skipRows)
		if err != nil {
			return err
		}

		eng := engine.New(table)
		eng.Charset = charsetOrDefault(charset)

		res, err := eng.RunFiles(ctx, args)
		if err != nil {
			return err
		}

		if outDir == "" {
			outDir = cfg.Export.Dir
		}
		return exportResult(res, outDir, exportFormat(format))
	},
}

func init() {
	exportCmd.Flags().String("spec", "", "specification table (.xlsx or .csv)")
	exportCmd.Flags().String("spec-sheet", "", "worksheet name for xlsx spec tables")
	exportCmd.Flags().Int("spec-skip-rows", 0, "banner rows above the spec table header")
	exportCmd.Flags().String("charset", "", "listing file charset (default from config)")
	exportCmd.Flags().String("out-dir", "", "output directory (default from config)")
	exportCmd.Flags().String("format", "", "export format: csv or xlsx (default from config)")
	_ = exportCmd.MarkFlagRequired("spec")
	rootCmd.AddCommand(exportCmd)
}

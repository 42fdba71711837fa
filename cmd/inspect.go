package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/weldcount/internal/listing"
	"github.com/sells-group/weldcount/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <listing>...",
	Short: "Parse listing files and dump branches and components",
	Long:  "Runs only the parse stage. Useful for checking what the engine will see before cross-referencing a specification table.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		charset, _ := cmd.Flags().GetString("charset")

		for _, path := range args {
			text, err := listing.ReadFile(path, charsetOrDefault(charset))
			if err != nil {
				return err
			}
			br := listing.ExtractBranches(text, path)
			cr := listing.ExtractComponents(text, path)

			fmt.Fprintf(os.Stdout, "%s: %d branches (%d dropped), %d components (%d dropped)\n",
				path, len(br.Branches), br.Dropped, len(cr.Components), cr.Dropped)
			formatBranches(os.Stdout, br.Branches)
			formatComponents(os.Stdout, cr.Components)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("charset", "", "listing file charset (default from config)")
	rootCmd.AddCommand(inspectCmd)
}

// formatBranches writes a tabular branch listing to w, sorted by id.
func formatBranches(out io.Writer, branches model.BranchMap) {
	ids := make([]string, 0, len(branches))
	for id := range branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BRANCH\tHEAD\tHCONN\tTAIL\tTCONN")
	for _, id := range ids {
		b := branches[id]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.HeadPos, b.HeadConn, b.TailPos, b.TailConn)
	}
	_ = w.Flush()
}

// formatComponents writes a tabular component listing to w in declaration order.
func formatComponents(out io.Writer, comps []model.Component) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPONENT\tBRANCH\tTYPE\tPOS\tCONN1\tCONN2\tPBOR")
	for _, c := range comps {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.1f\n",
			c.ID, c.BranchID, c.Type, c.Position, c.Port1Conn, c.Port2Conn, c.Bore)
	}
	_ = w.Flush()
}

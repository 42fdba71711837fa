// Package export writes the per-entity row sets and tally summary consumed
// by external reporting tools.
package export

import (
	"fmt"
	"strconv"

	"github.com/sells-group/weldcount/internal/engine"
)

// rowSet is one flat output table: a stable file/sheet name, a header, and
// its data rows.
type rowSet struct {
	name   string
	header []string
	rows   [][]string
}

// buildRowSets flattens an engine result into the exported tables. Every
// column is stringly typed on purpose: these rows feed spreadsheets.
func buildRowSets(res *engine.Result) []rowSet {
	components := rowSet{
		name:   "components",
		header: []string{"component_id", "branch_id", "type", "position", "port1_conn", "port2_conn", "bore", "secondary_bore", "form_factor", "seq"},
	}
	for _, c := range res.Components {
		components.rows = append(components.rows, []string{
			c.ID, c.BranchID, string(c.Type), c.Position.WKT(),
			string(c.Port1Conn), string(c.Port2Conn),
			formatFloat(c.Bore), formatFloat(c.Bore2), formatFloat(c.Form),
			strconv.Itoa(c.Seq),
		})
	}

	welds := rowSet{
		name:   "component_welds",
		header: []string{"component_id", "branch_id", "type", "status", "welds", "olet_rule"},
	}
	for _, w := range res.Welds {
		welds.rows = append(welds.rows, []string{
			w.ComponentID, w.BranchID, string(w.Type), string(w.Status),
			strconv.Itoa(w.Welds), strconv.FormatBool(w.OletRule),
		})
	}

	connected := rowSet{
		name:   "connected_branches",
		header: []string{"branch_a", "end_a", "branch_b", "end_b", "template", "accuracy"},
	}
	for _, p := range res.ConnectedPairs {
		connected.rows = append(connected.rows, []string{
			p.BranchA, string(p.EndA), p.BranchB, string(p.EndB),
			string(p.Template), formatFloat(p.Accuracy),
		})
	}

	adjacency := rowSet{
		name:   "component_adjacency",
		header: []string{"branch_id", "component_a", "component_b", "distance", "expected_length", "class"},
	}
	for _, a := range res.Adjacency {
		adjacency.rows = append(adjacency.rows, []string{
			a.BranchID, a.ComponentA, a.ComponentB,
			formatFloat(a.Distance), formatFloat(a.ExpectedLength), string(a.Class),
		})
	}

	ends := rowSet{
		name:   "branch_ends",
		header: []string{"branch_id", "head_bwd", "tail_bwd", "comp_at_head", "comp_at_tail", "head_pipe_length", "tail_pipe_length", "first_component", "last_component"},
	}
	for _, e := range res.BranchEnds {
		ends.rows = append(ends.rows, []string{
			e.BranchID,
			strconv.FormatBool(e.HeadBWD), strconv.FormatBool(e.TailBWD),
			e.CompAtHead, e.CompAtTail,
			formatFloat(e.HeadPipeLength), formatFloat(e.TailPipeLength),
			e.FirstComponent, e.LastComponent,
		})
	}

	tally := rowSet{
		name:   "tally",
		header: []string{"counter", "value"},
		rows: [][]string{
			{"component_welds", strconv.Itoa(res.Tally.ComponentWelds)},
			{"bwd_branch_ends", strconv.Itoa(res.Tally.BWDBranchEnds)},
			{"touching_pairs", strconv.Itoa(res.Tally.TouchingPairs)},
			{"components_at_bwd_ends", strconv.Itoa(res.Tally.ComponentsAtBWDEnds)},
			{"total_welds", strconv.Itoa(res.Tally.Total)},
			{"branches", strconv.Itoa(res.Tally.Branches)},
			{"components", strconv.Itoa(res.Tally.Components)},
			{"unmatched_spec", strconv.Itoa(res.Tally.UnmatchedSpec)},
			{"olet_bwd_ports", strconv.Itoa(res.Tally.OletBWDPorts)},
			{"dropped_branches", strconv.Itoa(res.Tally.DroppedBranches)},
			{"connected_branch_pairs", strconv.Itoa(res.Tally.ConnectedBranchPairs)},
		},
	}

	return []rowSet{components, welds, connected, adjacency, ends, tally}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

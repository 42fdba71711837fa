package engine

import "github.com/sells-group/weldcount/internal/model"

// Aggregate combines the independently computed stage counters into the
// final tally:
//
//	total = component_welds + bwd_branch_ends - touching_pairs - components_at_bwd_ends
//
// It performs summation only; no geometric work happens here, and every
// intermediate term is exposed on the result for audit.
func Aggregate(cross CrossRefResult, adj AdjacencyResult, ends BranchEndResult, stats RunStats) model.WeldTally {
	return model.WeldTally{
		ComponentWelds:      cross.ComponentWelds,
		BWDBranchEnds:       ends.BWDEnds,
		TouchingPairs:       adj.Touching,
		ComponentsAtBWDEnds: ends.CompsAtBWDEnds,
		Total:               cross.ComponentWelds + ends.BWDEnds - adj.Touching - ends.CompsAtBWDEnds,

		Branches:             stats.Branches,
		Components:           stats.Components,
		UnmatchedSpec:        cross.Unmatched,
		OletBWDPorts:         cross.OletBWDPorts,
		DroppedBranches:      stats.DroppedBranches,
		ConnectedBranchPairs: stats.ConnectedBranchPairs,
	}
}

// RunStats carries review statistics into the tally that are not part of
// the correction formula.
type RunStats struct {
	Branches             int
	Components           int
	DroppedBranches      int
	ConnectedBranchPairs int
}

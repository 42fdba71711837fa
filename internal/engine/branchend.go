package engine

import (
	"sort"

	"github.com/sells-group/weldcount/internal/model"
)

// BranchEndResult holds the per-branch reconciliation rows plus the two
// counters the aggregator consumes.
type BranchEndResult struct {
	Records        []model.BranchEndRecord
	BWDEnds        int // raw count of BWD branch ends across all branches
	CompsAtBWDEnds int // components sitting on a BWD end, already welded by the spec join
}

// ReconcileBranchEnds determines which branch ends demand a weld and whether
// a component already sits on one.
//
// The raw BWD end count deliberately includes branch-to-branch connections:
// when A's tail meets B's head and both are BWD, that is two ends in the
// tally for one physical weld, and the branch-end definition itself absorbs
// that accounting. No second correction happens here.
//
// A countable component within EndEpsilonMM of a BWD end is flagged; its own
// weld from the specification join already fulfils that end's requirement,
// so the aggregator subtracts one per flag. Head and tail pipe lengths from
// each end to the first/last countable component are reported for QA.
func ReconcileBranchEnds(branches model.BranchMap, components []model.Component, f Factors) BranchEndResult {
	byBranch := countableByBranch(components)

	ids := make([]string, 0, len(branches))
	for id := range branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var res BranchEndResult
	for _, id := range ids {
		b := branches[id]
		rec := model.BranchEndRecord{
			BranchID: id,
			HeadBWD:  b.HeadConn.IsBWD(),
			TailBWD:  b.TailConn.IsBWD(),
		}
		if rec.HeadBWD {
			res.BWDEnds++
		}
		if rec.TailBWD {
			res.BWDEnds++
		}

		comps := byBranch[id]
		if len(comps) > 0 {
			first, last := comps[0], comps[len(comps)-1]
			rec.FirstComponent = first.ID
			rec.LastComponent = last.ID
			rec.HeadPipeLength = b.HeadPos.Distance(first.Position)
			rec.TailPipeLength = b.TailPos.Distance(last.Position)
		}

		if rec.HeadBWD {
			if c := componentAt(comps, b.HeadPos, f.EndEpsilonMM); c != nil {
				rec.CompAtHead = c.ID
				res.CompsAtBWDEnds++
			}
		}
		if rec.TailBWD {
			if c := componentAt(comps, b.TailPos, f.EndEpsilonMM); c != nil {
				rec.CompAtTail = c.ID
				res.CompsAtBWDEnds++
			}
		}

		res.Records = append(res.Records, rec)
	}
	return res
}

// countableByBranch groups countable components per branch in declaration
// order.
func countableByBranch(components []model.Component) map[string][]model.Component {
	out := make(map[string][]model.Component)
	for _, c := range components {
		if !c.Type.Countable() {
			continue
		}
		out[c.BranchID] = append(out[c.BranchID], c)
	}
	for _, comps := range out {
		sort.SliceStable(comps, func(i, j int) bool { return comps[i].Seq < comps[j].Seq })
	}
	return out
}

// componentAt returns the first component within epsilon of the position.
// Branch-end components are programmatically placed, so epsilon stays small.
func componentAt(comps []model.Component, pos model.Point, epsilon float64) *model.Component {
	for i := range comps {
		if comps[i].Position.Distance(pos) <= epsilon {
			return &comps[i]
		}
	}
	return nil
}

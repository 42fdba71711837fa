package engine

import (
	"sort"

	"github.com/sells-group/weldcount/internal/model"
)

// AdjacencyResult holds the touching analysis rows plus the touching-pair
// count consumed by the aggregator.
type AdjacencyResult struct {
	Records  []model.AdjacencyRecord
	Touching int
}

// AnalyzeAdjacency classifies each consecutive pair of countable components
// on every branch as touching, near, or separated. Touching pairs share one
// physical weld that the cross-referencer counted twice, so the aggregator
// subtracts them. OLET components and flange-on-flange pairs never count as
// touching: olets are already covered by their own rule, and paired flanges
// are bolted.
func AnalyzeAdjacency(components []model.Component, src model.SpecificationSource, f Factors) AdjacencyResult {
	byBranch := make(map[string][]model.Component)
	for _, c := range components {
		if !c.Type.Countable() {
			continue
		}
		byBranch[c.BranchID] = append(byBranch[c.BranchID], c)
	}

	branchIDs := make([]string, 0, len(byBranch))
	for id := range byBranch {
		branchIDs = append(branchIDs, id)
	}
	sort.Strings(branchIDs)

	var res AdjacencyResult
	for _, id := range branchIDs {
		comps := byBranch[id]
		sort.SliceStable(comps, func(i, j int) bool { return comps[i].Seq < comps[j].Seq })
		for i := 0; i+1 < len(comps); i++ {
			rec := classifyPair(comps[i], comps[i+1], src, f)
			if rec.Class == model.AdjacencyTouching {
				res.Touching++
			}
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

func classifyPair(a, b model.Component, src model.SpecificationSource, f Factors) model.AdjacencyRecord {
	rec := model.AdjacencyRecord{
		ComponentA: a.ID,
		ComponentB: b.ID,
		BranchID:   a.BranchID,
		Distance:   a.Position.Distance(b.Position),
	}

	if a.Type == model.ComponentOlet || b.Type == model.ComponentOlet {
		rec.Class = model.AdjacencyExcluded
		return rec
	}
	if a.Type == model.ComponentFlange && b.Type == model.ComponentFlange {
		rec.Class = model.AdjacencyExcluded
		return rec
	}

	bore, bore2, form := effectiveGeometry(a, src)
	expected, ok := f.ExpectedLength(a.Type, bore, bore2, form)
	if !ok {
		rec.Class = model.AdjacencyExcluded
		return rec
	}
	rec.ExpectedLength = expected

	switch {
	case rec.Distance <= expected*f.TouchingTolerance:
		rec.Class = model.AdjacencyTouching
	case rec.Distance <= expected*f.NearBand:
		rec.Class = model.AdjacencyNear
	default:
		rec.Class = model.AdjacencySeparated
	}
	return rec
}

// effectiveGeometry resolves bore/form values for a component, preferring
// the listing attributes and falling back to the specification row when the
// listing left them blank.
func effectiveGeometry(c model.Component, src model.SpecificationSource) (bore, bore2, form float64) {
	bore, bore2, form = c.Bore, c.Bore2, c.Form
	if bore != 0 && bore2 != 0 && form != 0 {
		return bore, bore2, form
	}
	if rec, ok := src.Lookup(c.ID); ok {
		if bore == 0 {
			bore = rec.Bore
		}
		if bore2 == 0 {
			bore2 = rec.Bore2
		}
		if form == 0 {
			form = rec.Form
		}
	}
	return bore, bore2, form
}

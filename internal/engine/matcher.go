package engine

import (
	"math"
	"sort"

	"github.com/sells-group/weldcount/internal/model"
)

const (
	tightToleranceMM = 5.0
	looseToleranceMM = 150.0
)

// axisTolerances is one tolerance template: per-axis limits with exactly two
// tight axes. Templates are evaluated in declaration order and the first
// qualifying one wins.
type axisTolerances struct {
	name       model.AxisTemplate
	tx, ty, tz float64
}

var templates = []axisTolerances{
	{model.AxesXYTightZLoose, tightToleranceMM, tightToleranceMM, looseToleranceMM},
	{model.AxesXZTightYLoose, tightToleranceMM, looseToleranceMM, tightToleranceMM},
	{model.AxesYZTightXLoose, looseToleranceMM, tightToleranceMM, tightToleranceMM},
}

// matchEndpoints tests one endpoint pair against the templates. Accuracy is
// 100 * (1 - maxTightOffset/5mm), useful only for diagnostic ranking.
func matchEndpoints(a, b model.Point) (model.AxisTemplate, float64, bool) {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)
	dz := math.Abs(a.Z - b.Z)

	for _, tpl := range templates {
		if dx > tpl.tx || dy > tpl.ty || dz > tpl.tz {
			continue
		}
		maxTight := 0.0
		if tpl.tx == tightToleranceMM {
			maxTight = math.Max(maxTight, dx)
		}
		if tpl.ty == tightToleranceMM {
			maxTight = math.Max(maxTight, dy)
		}
		if tpl.tz == tightToleranceMM {
			maxTight = math.Max(maxTight, dz)
		}
		accuracy := 100 * (1 - maxTight/tightToleranceMM)
		return tpl.name, accuracy, true
	}
	return "", 0, false
}

// endLabels orders the four endpoint combinations tried for each pair.
var endLabels = [2]model.EndLabel{model.EndHead, model.EndTail}

// MatchConnectedBranches finds all unordered branch pairs whose endpoints
// coincide under one of the tolerance templates. Each physical connection is
// recorded once: the first qualifying endpoint combination and template win,
// and a pair never appears under two templates. Output order is
// deterministic (sorted by branch id pair).
func MatchConnectedBranches(branches model.BranchMap) []model.ConnectedBranchPair {
	ids := make([]string, 0, len(branches))
	for id := range branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var pairs []model.ConnectedBranchPair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := branches[ids[i]], branches[ids[j]]
			if pair, ok := matchPair(a, b); ok {
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}

// matchPair evaluates the endpoint combinations from a's perspective:
// a-head/b-head, a-head/b-tail, a-tail/b-head, a-tail/b-tail. When a pair
// qualifies at both end combinations under different templates, the
// reported combination and template depend on which branch is passed
// first, so callers must pass the lexically smaller branch id as a. The
// connection itself is found either way.
func matchPair(a, b model.Branch) (model.ConnectedBranchPair, bool) {
	aEnds, bEnds := a.Ends(), b.Ends()
	for ai, endA := range endLabels {
		for bi, endB := range endLabels {
			tpl, accuracy, ok := matchEndpoints(aEnds[ai], bEnds[bi])
			if !ok {
				continue
			}
			return model.ConnectedBranchPair{
				BranchA:  a.ID,
				BranchB:  b.ID,
				EndA:     endA,
				EndB:     endB,
				Template: tpl,
				Accuracy: accuracy,
			}, true
		}
	}
	return model.ConnectedBranchPair{}, false
}

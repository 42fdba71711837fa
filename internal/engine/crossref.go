package engine

import (
	"go.uber.org/zap"

	"github.com/sells-group/weldcount/internal/model"
)

// CrossRefResult is the specification join output: one verdict per component
// plus the counters the aggregator consumes.
type CrossRefResult struct {
	Welds          []model.ComponentWeld
	ComponentWelds int // total welds contributed by components
	Unmatched      int // countable components with no specification match
	OletBWDPorts   int // OLETs whose spec row also carried BWD ports, for review
}

// CrossReference joins components against the specification source and
// classifies weld-bearing connections. Port conditions are additive: each
// BWD port contributes one weld. An OLET contributes exactly one weld
// regardless of its port fields; the override is flagged when it suppressed
// port-based counting. A lookup miss marks the component unknown and
// contributes zero.
func CrossReference(components []model.Component, src model.SpecificationSource) CrossRefResult {
	var res CrossRefResult
	res.Welds = make([]model.ComponentWeld, 0, len(components))

	for _, c := range components {
		cw := model.ComponentWeld{
			ComponentID: c.ID,
			BranchID:    c.BranchID,
			Type:        c.Type,
		}

		if !c.Type.Countable() {
			cw.Status = model.WeldStatusExcluded
			res.Welds = append(res.Welds, cw)
			continue
		}

		rec, ok := src.Lookup(c.ID)
		if !ok {
			cw.Status = model.WeldStatusUnknown
			res.Unmatched++
			res.Welds = append(res.Welds, cw)
			continue
		}

		bwdPorts := 0
		if rec.Port1Conn.IsBWD() {
			bwdPorts++
		}
		if rec.Port2Conn.IsBWD() {
			bwdPorts++
		}

		if c.Type == model.ComponentOlet || rec.Type == model.ComponentOlet {
			// The OLET rule takes precedence over port-based counting to
			// avoid triple counting an inherently welded fitting.
			cw.Welds = 1
			cw.OletRule = true
			if bwdPorts > 0 {
				res.OletBWDPorts++
				zap.L().Debug("crossref: olet with BWD ports, port welds suppressed",
					zap.String("component", c.ID),
					zap.Int("bwd_ports", bwdPorts),
				)
			}
		} else {
			cw.Welds = bwdPorts
		}

		if cw.Welds > 0 {
			cw.Status = model.WeldStatusWelded
		} else {
			cw.Status = model.WeldStatusNone
		}
		res.ComponentWelds += cw.Welds
		res.Welds = append(res.Welds, cw)
	}

	return res
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/weldcount/internal/model"
)

func comp(id, branch string, t model.ComponentType, seq int, pos model.Point) model.Component {
	return model.Component{ID: id, BranchID: branch, Type: t, Seq: seq, Position: pos}
}

func TestAnalyzeAdjacency_TouchingWithinTolerance(t *testing.T) {
	// Elbow FORM 1.5, bore 200 -> expected 300mm; gap 320mm is within the
	// 10% tolerance band (330mm).
	a := comp("E1", "B1", model.ComponentElbow, 0, model.Point{})
	a.Bore, a.Form = 200, 1.5
	b := comp("F1", "B1", model.ComponentFlange, 1, model.Point{X: 320})

	res := AnalyzeAdjacency([]model.Component{a, b}, specTable(), DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.AdjacencyTouching, res.Records[0].Class)
	assert.InDelta(t, 300.0, res.Records[0].ExpectedLength, 1e-9)
	assert.Equal(t, 1, res.Touching)
}

func TestAnalyzeAdjacency_NearAndSeparatedBands(t *testing.T) {
	a := comp("E1", "B1", model.ComponentElbow, 0, model.Point{})
	a.Bore, a.Form = 200, 1.5 // expected 300
	near := comp("F1", "B1", model.ComponentFlange, 1, model.Point{X: 500})
	nearRes := AnalyzeAdjacency([]model.Component{a, near}, specTable(), DefaultFactors())
	assert.Equal(t, model.AdjacencyNear, nearRes.Records[0].Class)
	assert.Zero(t, nearRes.Touching)

	far := comp("F2", "B1", model.ComponentFlange, 1, model.Point{X: 700})
	farRes := AnalyzeAdjacency([]model.Component{a, far}, specTable(), DefaultFactors())
	assert.Equal(t, model.AdjacencySeparated, farRes.Records[0].Class)
}

func TestAnalyzeAdjacency_FlangeFlangeExcluded(t *testing.T) {
	// Paired flanges are bolted, not welded.
	a := comp("F1", "B1", model.ComponentFlange, 0, model.Point{})
	a.Bore = 200
	b := comp("F2", "B1", model.ComponentFlange, 1, model.Point{X: 10})

	res := AnalyzeAdjacency([]model.Component{a, b}, specTable(), DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.AdjacencyExcluded, res.Records[0].Class)
	assert.Zero(t, res.Touching)
}

func TestAnalyzeAdjacency_OletExcluded(t *testing.T) {
	a := comp("O1", "B1", model.ComponentOlet, 0, model.Point{})
	b := comp("E1", "B1", model.ComponentElbow, 1, model.Point{X: 10})
	b.Bore, b.Form = 200, 1.5

	res := AnalyzeAdjacency([]model.Component{a, b}, specTable(), DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.AdjacencyExcluded, res.Records[0].Class)
}

func TestAnalyzeAdjacency_UndefinedTypeExcluded(t *testing.T) {
	a := comp("X1", "B1", model.ComponentOther, 0, model.Point{})
	b := comp("E1", "B1", model.ComponentElbow, 1, model.Point{X: 10})

	res := AnalyzeAdjacency([]model.Component{a, b}, specTable(), DefaultFactors())
	// ComponentOther is not countable, so no pair forms at all.
	assert.Empty(t, res.Records)
}

func TestAnalyzeAdjacency_StructuralComponentsSkipped(t *testing.T) {
	// A PIPE between two fittings must not break their consecutive pairing.
	a := comp("E1", "B1", model.ComponentElbow, 0, model.Point{})
	a.Bore, a.Form = 200, 1.5
	pipe := comp("P1", "B1", model.ComponentPipe, 1, model.Point{X: 100})
	b := comp("F1", "B1", model.ComponentFlange, 2, model.Point{X: 290})

	res := AnalyzeAdjacency([]model.Component{a, pipe, b}, specTable(), DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.Equal(t, "E1", res.Records[0].ComponentA)
	assert.Equal(t, "F1", res.Records[0].ComponentB)
	assert.Equal(t, model.AdjacencyTouching, res.Records[0].Class)
}

func TestAnalyzeAdjacency_BoreFallsBackToSpec(t *testing.T) {
	// Listing carried no bore; the spec row supplies it.
	a := comp("E1", "B1", model.ComponentElbow, 0, model.Point{})
	b := comp("F1", "B1", model.ComponentFlange, 1, model.Point{X: 290})
	src := specTable(model.SpecRecord{ComponentRef: "E1", Bore: 200, Form: 1.5})

	res := AnalyzeAdjacency([]model.Component{a, b}, src, DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.InDelta(t, 300.0, res.Records[0].ExpectedLength, 1e-9)
	assert.Equal(t, model.AdjacencyTouching, res.Records[0].Class)
}

func TestAnalyzeAdjacency_CapExpectedZero(t *testing.T) {
	a := comp("C1", "B1", model.ComponentCap, 0, model.Point{X: 50})
	b := comp("F1", "B1", model.ComponentFlange, 1, model.Point{X: 50})

	res := AnalyzeAdjacency([]model.Component{a, b}, specTable(), DefaultFactors())
	require.Len(t, res.Records, 1)
	assert.Zero(t, res.Records[0].ExpectedLength)
	assert.Equal(t, model.AdjacencyTouching, res.Records[0].Class)
}

func TestAnalyzeAdjacency_SingleComponentBranchHasNoPairs(t *testing.T) {
	a := comp("E1", "B1", model.ComponentElbow, 0, model.Point{})
	res := AnalyzeAdjacency([]model.Component{a}, specTable(), DefaultFactors())
	assert.Empty(t, res.Records)
}

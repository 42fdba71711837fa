package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/weldcount/internal/model"
	"github.com/sells-group/weldcount/internal/specdb"
)

func specTable(records ...model.SpecRecord) *specdb.Table {
	return specdb.NewTable(records)
}

func TestCrossReference_BothPortsBWDCountTwo(t *testing.T) {
	src := specTable(model.SpecRecord{ComponentRef: "E1", Port1Conn: model.ConnBWD, Port2Conn: model.ConnBWD})
	comps := []model.Component{{ID: "E1", BranchID: "B1", Type: model.ComponentElbow}}

	res := CrossReference(comps, src)
	assert.Equal(t, 2, res.ComponentWelds)
	require.Len(t, res.Welds, 1)
	assert.Equal(t, model.WeldStatusWelded, res.Welds[0].Status)
	assert.Equal(t, 2, res.Welds[0].Welds)
}

func TestCrossReference_SinglePortBWDCountsOne(t *testing.T) {
	src := specTable(model.SpecRecord{ComponentRef: "F1", Port2Conn: model.ConnBWD})
	comps := []model.Component{{ID: "F1", BranchID: "B1", Type: model.ComponentFlange}}

	res := CrossReference(comps, src)
	assert.Equal(t, 1, res.ComponentWelds)
}

func TestCrossReference_OletRuleOverridesPorts(t *testing.T) {
	// An OLET with BWD ports contributes exactly 1, not 3.
	src := specTable(model.SpecRecord{
		ComponentRef: "O1",
		Port1Conn:    model.ConnBWD,
		Port2Conn:    model.ConnBWD,
		Type:         model.ComponentOlet,
	})
	comps := []model.Component{{ID: "O1", BranchID: "B1", Type: model.ComponentOlet}}

	res := CrossReference(comps, src)
	assert.Equal(t, 1, res.ComponentWelds)
	require.Len(t, res.Welds, 1)
	assert.True(t, res.Welds[0].OletRule)
	assert.Equal(t, 1, res.OletBWDPorts)
}

func TestCrossReference_OletWithoutPortsStillCountsOne(t *testing.T) {
	src := specTable(model.SpecRecord{ComponentRef: "O1", Type: model.ComponentOlet})
	comps := []model.Component{{ID: "O1", BranchID: "B1", Type: model.ComponentOlet}}

	res := CrossReference(comps, src)
	assert.Equal(t, 1, res.ComponentWelds)
	assert.Zero(t, res.OletBWDPorts)
}

func TestCrossReference_UnmatchedIsUnknownNotError(t *testing.T) {
	src := specTable()
	comps := []model.Component{{ID: "V1", BranchID: "B1", Type: model.ComponentValve}}

	res := CrossReference(comps, src)
	assert.Zero(t, res.ComponentWelds)
	assert.Equal(t, 1, res.Unmatched)
	require.Len(t, res.Welds, 1)
	assert.Equal(t, model.WeldStatusUnknown, res.Welds[0].Status)
}

func TestCrossReference_StructuralAndWeldMarkersExcluded(t *testing.T) {
	src := specTable(
		model.SpecRecord{ComponentRef: "A1", Port1Conn: model.ConnBWD},
		model.SpecRecord{ComponentRef: "W1", Port1Conn: model.ConnBWD},
	)
	comps := []model.Component{
		{ID: "A1", BranchID: "B1", Type: model.ComponentAttachment},
		{ID: "W1", BranchID: "B1", Type: model.ComponentWeldMark},
	}

	res := CrossReference(comps, src)
	assert.Zero(t, res.ComponentWelds)
	assert.Zero(t, res.Unmatched)
	for _, w := range res.Welds {
		assert.Equal(t, model.WeldStatusExcluded, w.Status)
	}
}

func TestCrossReference_NonBWDPortsAreNone(t *testing.T) {
	src := specTable(model.SpecRecord{ComponentRef: "F1", Port1Conn: "FLG", Port2Conn: "SCR"})
	comps := []model.Component{{ID: "F1", BranchID: "B1", Type: model.ComponentFlange}}

	res := CrossReference(comps, src)
	assert.Zero(t, res.ComponentWelds)
	assert.Equal(t, model.WeldStatusNone, res.Welds[0].Status)
}

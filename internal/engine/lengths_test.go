package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/weldcount/internal/model"
)

func TestExpectedLength_Table(t *testing.T) {
	f := DefaultFactors()
	tests := []struct {
		name        string
		typ         model.ComponentType
		bore, bore2 float64
		form        float64
		want        float64
		defined     bool
	}{
		{"elbow form times bore", model.ComponentElbow, 200, 0, 1.5, 300, true},
		{"tee", model.ComponentTee, 100, 0, 0, 90, true},
		{"flange", model.ComponentFlange, 100, 0, 0, 40, true},
		{"valve", model.ComponentValve, 100, 0, 0, 50, true},
		{"valve falls back to secondary bore", model.ComponentValve, 0, 80, 0, 40, true},
		{"reducer uses secondary bore", model.ComponentReducer, 200, 100, 0, 115, true},
		{"cap", model.ComponentCap, 100, 0, 0, 0, true},
		{"olet undefined", model.ComponentOlet, 100, 0, 0, 0, false},
		{"weld marker undefined", model.ComponentWeldMark, 100, 0, 0, 0, false},
		{"other undefined", model.ComponentOther, 100, 0, 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := f.ExpectedLength(tc.typ, tc.bore, tc.bore2, tc.form)
			assert.Equal(t, tc.defined, ok)
			if tc.defined {
				assert.InDelta(t, tc.want, got, 1e-9)
			}
		})
	}
}

func TestExpectedLength_NeverNegative(t *testing.T) {
	f := DefaultFactors()
	types := []model.ComponentType{
		model.ComponentElbow, model.ComponentTee, model.ComponentFlange,
		model.ComponentValve, model.ComponentReducer, model.ComponentCap,
	}
	for _, typ := range types {
		for _, bore := range []float64{-100, 0, 50, 600} {
			for _, form := range []float64{-2, 0, 1.5} {
				got, _ := f.ExpectedLength(typ, bore, bore, form)
				assert.GreaterOrEqual(t, got, 0.0, "type %s bore %v form %v", typ, bore, form)
			}
		}
	}
}

func TestExpectedLength_ElbowAlternateFormula(t *testing.T) {
	f := DefaultFactors()
	f.ElbowFormula = ElbowFormPlusHalfBore
	got, ok := f.ExpectedLength(model.ComponentElbow, 200, 0, 1.5)
	require.True(t, ok)
	assert.InDelta(t, 101.5, got, 1e-9)
}

func TestLoadFactors_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tee: 0.95\nelbow_formula: form_plus_half_bore\n"), 0o644))

	f, err := LoadFactors(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, f.Tee, 1e-9)
	assert.Equal(t, ElbowFormPlusHalfBore, f.ElbowFormula)
	// Untouched values keep their defaults.
	assert.InDelta(t, 0.40, f.Flange, 1e-9)
	assert.InDelta(t, 1.10, f.TouchingTolerance, 1e-9)
}

func TestLoadFactors_UnknownElbowFormulaRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elbow_formula: guesswork\n"), 0o644))

	_, err := LoadFactors(path)
	assert.Error(t, err)
}

func TestLoadFactors_MissingFileIsError(t *testing.T) {
	_, err := LoadFactors(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

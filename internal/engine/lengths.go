// Package engine implements the weld-count estimation pipeline: branch
// matching, specification cross-referencing, adjacency analysis, branch-end
// reconciliation, and the final corrected tally.
package engine

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/weldcount/internal/model"
)

// ElbowFormula selects which elbow installed-length formula is in effect.
// Both variants are seen in the field; estimators pick per project.
type ElbowFormula string

const (
	ElbowFormTimesBore    ElbowFormula = "form_times_bore"     // FORM x PBOR
	ElbowFormPlusHalfBore ElbowFormula = "form_plus_half_bore" // FORM + PBOR/2
)

// Factors holds the tunable geometric constants of the adjacency and
// branch-end analysis. Defaults match standard fitting dimensions; projects
// override them with a YAML factors file.
type Factors struct {
	ElbowFormula      ElbowFormula `yaml:"elbow_formula"`
	Tee               float64      `yaml:"tee"`                // fraction of bore
	Flange            float64      `yaml:"flange"`             // fraction of bore
	Valve             float64      `yaml:"valve"`              // fraction of bore
	Reducer           float64      `yaml:"reducer"`            // fraction of secondary bore
	TouchingTolerance float64      `yaml:"touching_tolerance"` // multiplier on expected length
	NearBand          float64      `yaml:"near_band"`          // multiplier on expected length
	EndEpsilonMM      float64      `yaml:"end_epsilon_mm"`     // component-at-branch-end radius
}

// DefaultFactors returns the standard factor set.
func DefaultFactors() Factors {
	return Factors{
		ElbowFormula:      ElbowFormTimesBore,
		Tee:               0.90,
		Flange:            0.40,
		Valve:             0.50,
		Reducer:           1.15,
		TouchingTolerance: 1.10,
		NearBand:          2.0,
		EndEpsilonMM:      1.0,
	}
}

// LoadFactors reads a YAML factors file over the defaults, so a file only
// needs to name the values it changes.
func LoadFactors(path string) (Factors, error) {
	f := DefaultFactors()
	data, err := os.ReadFile(path)
	if err != nil {
		return f, eris.Wrapf(err, "engine: read factors %s", path)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, eris.Wrapf(err, "engine: parse factors %s", path)
	}
	if f.ElbowFormula != ElbowFormTimesBore && f.ElbowFormula != ElbowFormPlusHalfBore {
		return f, eris.Errorf("engine: unknown elbow formula %q", f.ElbowFormula)
	}
	return f, nil
}

// ExpectedLength returns the expected installed length in millimeters for a
// component type given its bore, secondary bore, and form factor. The second
// return is false for types with no defined length; their adjacency pairs
// are excluded from analysis. The result is never negative.
func (f Factors) ExpectedLength(t model.ComponentType, bore, bore2, form float64) (float64, bool) {
	var length float64
	switch t {
	case model.ComponentElbow:
		if f.ElbowFormula == ElbowFormPlusHalfBore {
			length = form + bore/2
		} else {
			length = form * bore
		}
	case model.ComponentTee:
		length = f.Tee * bore
	case model.ComponentFlange:
		length = f.Flange * bore
	case model.ComponentValve:
		b := bore
		if b == 0 {
			b = bore2
		}
		length = f.Valve * b
	case model.ComponentReducer:
		length = f.Reducer * bore2
	case model.ComponentCap:
		length = 0
	default:
		return 0, false
	}
	if length < 0 {
		length = 0
	}
	return length, true
}

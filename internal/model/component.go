package model

import "strings"

// ComponentType is the closed set of component type codes the engine knows.
// Codes outside the set parse to ComponentOther and take no part in weld or
// adjacency analysis.
type ComponentType string

const (
	ComponentElbow        ComponentType = "ELBOW"
	ComponentTee          ComponentType = "TEE"
	ComponentFlange       ComponentType = "FLANGE"
	ComponentValve        ComponentType = "VALVE"
	ComponentReducer      ComponentType = "REDUCER"
	ComponentCap          ComponentType = "CAP"
	ComponentOlet         ComponentType = "OLET"
	ComponentAttachment   ComponentType = "ATTACHMENT"
	ComponentBranch       ComponentType = "BRANCH"
	ComponentPipe         ComponentType = "PIPE"
	ComponentZone         ComponentType = "ZONE"
	ComponentSite         ComponentType = "SITE"
	ComponentStructure    ComponentType = "STRUCTURE"
	ComponentSubstructure ComponentType = "SUBSTRUCTURE"
	ComponentCylinder     ComponentType = "CYLINDER"
	ComponentCTorus       ComponentType = "CTORUS"
	ComponentWeldMark     ComponentType = "WELD"
	ComponentOther        ComponentType = "OTHER"
)

var componentTypes = map[string]ComponentType{
	"ELBOW":        ComponentElbow,
	"ELBO":         ComponentElbow,
	"TEE":          ComponentTee,
	"FLANGE":       ComponentFlange,
	"FLAN":         ComponentFlange,
	"VALVE":        ComponentValve,
	"VALV":         ComponentValve,
	"REDUCER":      ComponentReducer,
	"REDU":         ComponentReducer,
	"CAP":          ComponentCap,
	"OLET":         ComponentOlet,
	"ATTACHMENT":   ComponentAttachment,
	"ATTA":         ComponentAttachment,
	"BRANCH":       ComponentBranch,
	"BRAN":         ComponentBranch,
	"PIPE":         ComponentPipe,
	"ZONE":         ComponentZone,
	"SITE":         ComponentSite,
	"STRUCTURE":    ComponentStructure,
	"STRU":         ComponentStructure,
	"SUBSTRUCTURE": ComponentSubstructure,
	"SBFR":         ComponentSubstructure,
	"CYLINDER":     ComponentCylinder,
	"CYLI":         ComponentCylinder,
	"CTORUS":       ComponentCTorus,
	"CTOR":         ComponentCTorus,
	"WELD":         ComponentWeldMark,
}

// ParseComponentType maps a raw type code to the closed enum. Unknown codes
// return ComponentOther, never an error.
func ParseComponentType(code string) ComponentType {
	if t, ok := componentTypes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return t
	}
	return ComponentOther
}

// structuralTypes are retained for completeness but represent geometry or
// grouping, not weldable joints. They are excluded from first/last tracking
// and from weld/adjacency analysis.
var structuralTypes = map[ComponentType]bool{
	ComponentAttachment:   true,
	ComponentBranch:       true,
	ComponentPipe:         true,
	ComponentZone:         true,
	ComponentSite:         true,
	ComponentStructure:    true,
	ComponentSubstructure: true,
	ComponentCylinder:     true,
	ComponentCTorus:       true,
}

// IsStructural reports whether the type is in the structural exclusion set.
func (t ComponentType) IsStructural() bool {
	return structuralTypes[t]
}

// Countable reports whether the component is a candidate for weld and
// adjacency analysis. Structural types and existing weld markers are not.
func (t ComponentType) Countable() bool {
	return !t.IsStructural() && t != ComponentWeldMark && t != ComponentOther
}

// Component is one in-line piping component attached to a branch.
type Component struct {
	ID        string         `json:"id"`
	BranchID  string         `json:"branch_id"`
	Type      ComponentType  `json:"type"`
	RawType   string         `json:"raw_type"` // code as it appeared in the listing
	Position  Point          `json:"position"`
	Port1Conn ConnectionType `json:"port1_conn"`
	Port2Conn ConnectionType `json:"port2_conn"`
	Bore      float64        `json:"bore"`           // PBOR, mm
	Bore2     float64        `json:"secondary_bore"` // PBOR1, mm
	Form      float64        `json:"form_factor"`    // FORM
	Seq       int            `json:"seq"`            // declaration order within the branch
}

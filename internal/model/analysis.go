package model

// AxisTemplate names the tolerance template a connected-branch pair matched
// under. Templates are evaluated in declaration order; the first match wins.
type AxisTemplate string

const (
	AxesXYTightZLoose AxisTemplate = "xy_tight_z_loose"
	AxesXZTightYLoose AxisTemplate = "xz_tight_y_loose"
	AxesYZTightXLoose AxisTemplate = "yz_tight_x_loose"
)

// EndLabel identifies which end of a branch took part in a match.
type EndLabel string

const (
	EndHead EndLabel = "head"
	EndTail EndLabel = "tail"
)

// ConnectedBranchPair records a physical branch-to-branch connection found
// by the endpoint matcher. Immutable once computed; BranchA < BranchB.
type ConnectedBranchPair struct {
	BranchA  string       `json:"branch_a"`
	BranchB  string       `json:"branch_b"`
	EndA     EndLabel     `json:"end_a"`
	EndB     EndLabel     `json:"end_b"`
	Template AxisTemplate `json:"template"`
	Accuracy float64      `json:"accuracy"` // 0-100, diagnostic ranking only
}

// WeldStatus classifies the outcome of the specification join for one
// component.
type WeldStatus string

const (
	WeldStatusWelded   WeldStatus = "welded"
	WeldStatusNone     WeldStatus = "none"
	WeldStatusUnknown  WeldStatus = "unknown" // no specification match
	WeldStatusExcluded WeldStatus = "excluded"
)

// ComponentWeld is the cross-referencer verdict for one component.
type ComponentWeld struct {
	ComponentID string        `json:"component_id"`
	BranchID    string        `json:"branch_id"`
	Type        ComponentType `json:"type"`
	Status      WeldStatus    `json:"status"`
	Welds       int           `json:"welds"`
	OletRule    bool          `json:"olet_rule"` // OLET override applied
}

// AdjacencyClass classifies the gap between two consecutive components.
type AdjacencyClass string

const (
	AdjacencyTouching  AdjacencyClass = "touching"
	AdjacencyNear      AdjacencyClass = "near"
	AdjacencySeparated AdjacencyClass = "separated"
	AdjacencyExcluded  AdjacencyClass = "excluded"
)

// AdjacencyRecord is the touching analysis for one consecutive component
// pair on a branch.
type AdjacencyRecord struct {
	ComponentA     string         `json:"component_a"`
	ComponentB     string         `json:"component_b"`
	BranchID       string         `json:"branch_id"`
	Distance       float64        `json:"distance"`
	ExpectedLength float64        `json:"expected_length"`
	Class          AdjacencyClass `json:"class"`
}

// BranchEndRecord is the reconciler output for one branch: which ends demand
// a weld, whether a component already sits on a demanding end, and the open
// pipe lengths from each end to the first/last countable component.
type BranchEndRecord struct {
	BranchID       string  `json:"branch_id"`
	HeadBWD        bool    `json:"head_bwd"`
	TailBWD        bool    `json:"tail_bwd"`
	CompAtHead     string  `json:"comp_at_head,omitempty"` // component id sitting on a BWD head
	CompAtTail     string  `json:"comp_at_tail,omitempty"`
	HeadPipeLength float64 `json:"head_pipe_length"`
	TailPipeLength float64 `json:"tail_pipe_length"`
	FirstComponent string  `json:"first_component,omitempty"`
	LastComponent  string  `json:"last_component,omitempty"`
}

// WeldTally is the aggregate result of one pipeline run. Every intermediate
// term of the correction formula is exposed so consumers can audit it:
//
//	Total = ComponentWelds + BWDBranchEnds - TouchingPairs - ComponentsAtBWDEnds
type WeldTally struct {
	ComponentWelds      int `json:"component_welds"`
	BWDBranchEnds       int `json:"bwd_branch_ends"`
	TouchingPairs       int `json:"touching_pairs"`
	ComponentsAtBWDEnds int `json:"components_at_bwd_ends"`
	Total               int `json:"total"`

	// Review statistics, not part of the formula.
	Branches             int `json:"branches"`
	Components           int `json:"components"`
	UnmatchedSpec        int `json:"unmatched_spec"`
	OletBWDPorts         int `json:"olet_bwd_ports"` // OLETs whose ports were also BWD, flagged for review
	DroppedBranches      int `json:"dropped_branches"`
	ConnectedBranchPairs int `json:"connected_branch_pairs"`
}

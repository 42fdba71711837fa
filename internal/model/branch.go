package model

import "strings"

// ConnectionType is a piping connection code as found on branch ends and
// component ports (BWD, FLG, SCR, COMP, ...). The engine only ever makes a
// decision on BWD; everything else passes through for reporting.
type ConnectionType string

// ConnBWD is the butt-weld connection code. Its presence on a branch end or
// component port signals a required field weld.
const ConnBWD ConnectionType = "BWD"

// IsBWD reports whether the connection requires a butt weld. Case folded:
// the parsers uppercase connection codes, but records constructed directly
// get the same answer.
func (c ConnectionType) IsBWD() bool {
	return strings.EqualFold(string(c), string(ConnBWD))
}

// Branch is one pipe branch from a neutral database export, with its head
// and tail positions and connection codes.
type Branch struct {
	ID       string         `json:"id"`
	HeadPos  Point          `json:"head_pos"`
	TailPos  Point          `json:"tail_pos"`
	HeadConn ConnectionType `json:"head_conn"`
	TailConn ConnectionType `json:"tail_conn"`
	Source   string         `json:"source,omitempty"` // listing file the branch came from
}

// Ends returns the head and tail positions in order.
func (b Branch) Ends() [2]Point {
	return [2]Point{b.HeadPos, b.TailPos}
}

// BranchMap indexes branches by id. Duplicate ids in one input are
// last-write-wins by contract.
type BranchMap map[string]Branch

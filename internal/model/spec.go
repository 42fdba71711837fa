package model

// SpecRecord is one row of the external component specification table,
// keyed by component reference. Only the classification fields the engine
// reads are carried; blank or NaN source cells arrive as zero values.
type SpecRecord struct {
	ComponentRef string         `json:"component_ref"`
	Port1Conn    ConnectionType `json:"port1_conn"`
	Port2Conn    ConnectionType `json:"port2_conn"`
	Type         ComponentType  `json:"type"`
	Bore         float64        `json:"bore"`
	Bore2        float64        `json:"secondary_bore"`
	Form         float64        `json:"form_factor"`
}

// SpecificationSource is the read-only lookup capability the engine joins
// components against. A miss is an expected outcome, not an error — the
// second return is false and the component is tracked as unmatched.
type SpecificationSource interface {
	Lookup(componentRef string) (SpecRecord, bool)
	Len() int
}

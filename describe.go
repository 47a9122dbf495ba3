package typedfsm

// AnyState is the From of edges whose selection does not depend on the state.
const AnyState = "*"

// Description is a serializable view of a machine's table, used for
// visualisation and diagnostics.
type Description struct {
	MachineID string `json:"machineID" yaml:"machineID"`
	Current   string `json:"current" yaml:"current"`
	Edges     []Edge `json:"edges" yaml:"edges"`
}

// Edge is one transition of a Description.
type Edge struct {
	From    string `json:"from" yaml:"from"`
	Kind    string `json:"kind" yaml:"kind"`
	To      string `json:"to" yaml:"to"`
	Actions int    `json:"actions" yaml:"actions"`
}

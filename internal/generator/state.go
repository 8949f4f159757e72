package generator

// State is one step of a generation session
type State int

const (
	StateIdle State = iota
	StateBuilding
	StateInvoking
	StateValidating
	StateAwaitingDecision
	StateCommitted
	StateAbandoned
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateBuilding:         "building",
	StateInvoking:         "invoking",
	StateValidating:       "validating",
	StateAwaitingDecision: "awaiting-decision",
	StateCommitted:        "committed",
	StateAbandoned:        "abandoned",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateAbandoned || s == StateFailed
}

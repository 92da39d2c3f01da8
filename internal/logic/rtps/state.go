package rtps

// State is a stage of the RTPS flow.
type State int

const (
	Idle State = iota
	AwaitingBotCheck
	AwaitingPreScreen
	AwaitingVirtualLookup
	AwaitingPlacementFetch
	Rendered
	Failed
)

var stateNames = [...]string{
	Idle:                   "Idle",
	AwaitingBotCheck:       "AwaitingBotCheck",
	AwaitingPreScreen:      "AwaitingPreScreen",
	AwaitingVirtualLookup:  "AwaitingVirtualLookup",
	AwaitingPlacementFetch: "AwaitingPlacementFetch",
	Rendered:               "Rendered",
	Failed:                 "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Terminal reports whether the flow ends in s.
func (s State) Terminal() bool {
	return s == Rendered || s == Failed
}

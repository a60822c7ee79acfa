package report

import "fmt"

// State is the lifecycle position of a report run.
//
//	SUBMITTED -> POLLING -> COMPLETED -> RESHAPED
//	                    \-> ERRORED
type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateReshaped  State = "reshaped"
	StateErrored   State = "errored"
)

var transitions = map[State][]State{
	"":             {StateSubmitted, StateErrored},
	StateSubmitted: {StatePolling, StateErrored},
	StatePolling:   {StateCompleted, StateErrored},
	StateCompleted: {StateReshaped, StateErrored},
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateReshaped || s == StateErrored
}

// Next validates a move from s to to.
func (s State) Next(to State) (State, error) {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return to, nil
		}
	}
	return s, fmt.Errorf("invalid run transition %q -> %q", s, to)
}

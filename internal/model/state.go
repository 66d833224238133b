package model

// State is the persisted mapping between task identities and tracker issues.
type State struct {
	Open   map[string]int `json:"open"`   // identity -> issue number
	Closed []string       `json:"closed"` // identities closed because they vanished; duplicates allowed
}

// NewState returns an empty State.
func NewState() State {
	return State{Open: map[string]int{}, Closed: []string{}}
}

// Normalize replaces nil collections with empty ones.
func (s State) Normalize() State {
	if s.Open == nil {
		s.Open = map[string]int{}
	}
	if s.Closed == nil {
		s.Closed = []string{}
	}
	return s
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (s State) Clone() State {
	out := State{
		Open:   make(map[string]int, len(s.Open)),
		Closed: make([]string, len(s.Closed)),
	}
	for k, v := range s.Open {
		out.Open[k] = v
	}
	copy(out.Closed, s.Closed)
	return out
}

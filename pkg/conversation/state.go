package conversation

import (
	"github.com/huandu/go-clone"
)

// State is the serializable form of a History. It round-trips exactly,
// inactive nodes included.
type State struct {
	Nodes  []Node `json:"nodes"`
	NextID int    `json:"next_id"`
}

// State returns a deep copy of the history's serializable state.
func (h *History) State() State {
	ret := State{NextID: h.nextID}
	if h.nodes != nil {
		ret.Nodes = clone.Clone(h.nodes).([]Node)
	}
	return ret
}

// NewHistoryFromState reconstructs a History, ids and active flags preserved
// exactly.
func NewHistoryFromState(state State) *History {
	ret := &History{nextID: state.NextID}
	if state.Nodes != nil {
		ret.nodes = clone.Clone(state.Nodes).([]Node)
	}
	return ret
}

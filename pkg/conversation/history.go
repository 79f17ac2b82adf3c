package conversation

import (
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// History owns the ordered node store, ID assignment, activation rules and
// message-list assembly for one conversation.
//
// Invariants:
// - IDs come from a monotonic counter and are never reused.
// - At most one system node is active at a time.
// - A user/assistant pair is either both active or both inactive; a lone
//   user node (no assistant yet) stays inactive.
// - Nodes are never deleted by normal operation, only deactivated.
type History struct {
	nodes  []Node
	nextID int
}

func NewHistory() *History {
	return &History{}
}

func (h *History) newID() int {
	id := h.nextID
	h.nextID++
	return id
}

// AddSystem appends a new active system node, deactivating any previously
// active one, and returns its id.
func (h *History) AddSystem(text string) int {
	for i := range h.nodes {
		if h.nodes[i].Role == RoleSystem && h.nodes[i].Active {
			h.nodes[i].Active = false
		}
	}

	id := h.newID()
	h.nodes = append(h.nodes, Node{
		ID:      id,
		Role:    RoleSystem,
		Content: NewTextContent(text),
		Active:  true,
	})

	log.Trace().Int("id", id).Msg("added system node")

	return id
}

// AddUser appends a new user node and returns its id. The node stays
// inactive until its paired assistant node is registered.
func (h *History) AddUser(content Content) int {
	id := h.newID()
	h.nodes = append(h.nodes, Node{
		ID:      id,
		Role:    RoleUser,
		Content: content,
		Active:  false,
	})

	log.Trace().Int("id", id).Bool("multimodal", content.IsParts()).Msg("added user node")

	return id
}

// AddAssistant appends the assistant node sharing the given user node's id
// and activates the pair.
func (h *History) AddAssistant(id int, text string) error {
	found := false
	for i := range h.nodes {
		if h.nodes[i].ID == id && h.nodes[i].Role == RoleUser {
			found = true
			break
		}
	}
	if !found {
		return errors.Wrapf(ErrOrphanAssistant, "id %d", id)
	}

	h.nodes = append(h.nodes, Node{
		ID:      id,
		Role:    RoleAssistant,
		Content: NewTextContent(text),
		Active:  true,
	})
	for i := range h.nodes {
		if h.nodes[i].ID == id && h.nodes[i].Role == RoleUser {
			h.nodes[i].Active = true
			break
		}
	}

	log.Trace().Int("id", id).Msg("added assistant node, pair active")

	return nil
}

// Toggle sets or flips the activation of the node(s) carrying the given id.
//
// For a system node only that node changes; activating it deactivates every
// other system node. For a user/assistant id both nodes of the pair change
// together, and the pair has to be complete. A nil desired inverts the
// current state. Toggle never partially mutates state.
func (h *History) Toggle(id int, desired *bool) error {
	var idxs []int
	for i := range h.nodes {
		if h.nodes[i].ID == id {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return errors.Wrapf(ErrUnknownNode, "id %d", id)
	}

	if h.nodes[idxs[0]].Role == RoleSystem {
		node := &h.nodes[idxs[0]]
		state := !node.Active
		if desired != nil {
			state = *desired
		}
		node.Active = state
		if state {
			for i := range h.nodes {
				if h.nodes[i].Role == RoleSystem && h.nodes[i].ID != id {
					h.nodes[i].Active = false
				}
			}
		}
		return nil
	}

	var userIdx = -1
	var haveAssistant bool
	for _, i := range idxs {
		switch h.nodes[i].Role {
		case RoleUser:
			userIdx = i
		case RoleAssistant:
			haveAssistant = true
		}
	}
	if userIdx < 0 || !haveAssistant {
		return errors.Wrapf(ErrIncompletePair, "id %d", id)
	}

	state := !h.nodes[userIdx].Active
	if desired != nil {
		state = *desired
	}
	for _, i := range idxs {
		h.nodes[i].Active = state
	}

	return nil
}

// BuildMessages assembles the request payload: the active system node first
// (when several system nodes were reactivated, the last one in store order
// wins), then every active user/assistant node in store order.
func (h *History) BuildMessages() []Message {
	var messages []Message

	systemIdx := -1
	for i := range h.nodes {
		if h.nodes[i].Role == RoleSystem && h.nodes[i].Active {
			systemIdx = i
		}
	}
	if systemIdx >= 0 {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: h.nodes[systemIdx].Content,
		})
	}

	for i := range h.nodes {
		node := &h.nodes[i]
		if node.Role == RoleSystem || !node.Active {
			continue
		}
		messages = append(messages, Message{
			Role:    node.Role,
			Content: node.Content,
		})
	}

	return messages
}

// ActiveIDs returns the ids that have at least one active node, deduplicated,
// in first-seen store order.
func (h *History) ActiveIDs() []int {
	seen := map[int]bool{}
	var ids []int
	for i := range h.nodes {
		if h.nodes[i].Active && !seen[h.nodes[i].ID] {
			seen[h.nodes[i].ID] = true
			ids = append(ids, h.nodes[i].ID)
		}
	}
	return ids
}

// ActiveSystemID returns the id of the currently active system node, if any.
func (h *History) ActiveSystemID() (int, bool) {
	id := -1
	found := false
	for i := range h.nodes {
		if h.nodes[i].Role == RoleSystem && h.nodes[i].Active {
			id = h.nodes[i].ID
			found = true
		}
	}
	return id, found
}

// Clear deactivates all user/assistant nodes, and system nodes too when
// includeSystem is set. It never deletes nodes.
func (h *History) Clear(includeSystem bool) {
	for i := range h.nodes {
		if h.nodes[i].Role == RoleSystem && !includeSystem {
			continue
		}
		h.nodes[i].Active = false
	}
}

// Len returns the total number of stored nodes, active or not.
func (h *History) Len() int {
	return len(h.nodes)
}

// Nodes returns a deep copy of the node store for inspection.
func (h *History) Nodes() []Node {
	if h.nodes == nil {
		return nil
	}
	return clone.Clone(h.nodes).([]Node)
}

// Clone returns a fully independent duplicate of the history.
func (h *History) Clone() *History {
	ret := &History{nextID: h.nextID}
	if h.nodes != nil {
		ret.nodes = clone.Clone(h.nodes).([]Node)
	}
	return ret
}

package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestAddSystemKeepsSingleActiveSystem(t *testing.T) {
	h := NewHistory()

	s1 := h.AddSystem("S1")
	require.Equal(t, []int{s1}, h.ActiveIDs())

	s2 := h.AddSystem("S2")
	require.Equal(t, []int{s2}, h.ActiveIDs())

	id, ok := h.ActiveSystemID()
	require.True(t, ok)
	require.Equal(t, s2, id)

	messages := h.BuildMessages()
	require.Len(t, messages, 1)
	require.Equal(t, RoleSystem, messages[0].Role)
	require.Equal(t, "S2", messages[0].Content.Text)
}

func TestAddUserStaysInactiveUntilAssistantArrives(t *testing.T) {
	h := NewHistory()

	id := h.AddUser(NewTextContent("hi"))
	require.Empty(t, h.ActiveIDs())
	require.Empty(t, h.BuildMessages())

	require.NoError(t, h.AddAssistant(id, "hello"))
	require.Equal(t, []int{id}, h.ActiveIDs())
}

func TestScenarioSystemUserAssistant(t *testing.T) {
	h := NewHistory()

	h.AddSystem("S1")
	id := h.AddUser(NewTextContent("hi"))
	require.Equal(t, 1, id)
	require.NoError(t, h.AddAssistant(id, "hello"))

	messages := h.BuildMessages()
	require.Len(t, messages, 3)
	require.Equal(t, RoleSystem, messages[0].Role)
	require.Equal(t, "S1", messages[0].Content.Text)
	require.Equal(t, RoleUser, messages[1].Role)
	require.Equal(t, "hi", messages[1].Content.Text)
	require.Equal(t, RoleAssistant, messages[2].Role)
	require.Equal(t, "hello", messages[2].Content.Text)
}

func TestAddAssistantRejectsUnknownID(t *testing.T) {
	h := NewHistory()
	err := h.AddAssistant(42, "hello")
	require.ErrorIs(t, err, ErrOrphanAssistant)
	require.Equal(t, 0, h.Len())
}

func TestToggleUnknownID(t *testing.T) {
	h := NewHistory()
	err := h.Toggle(7, nil)
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestToggleIncompletePairDoesNotMutate(t *testing.T) {
	h := NewHistory()
	id := h.AddUser(NewTextContent("hi"))

	err := h.Toggle(id, boolPtr(true))
	require.ErrorIs(t, err, ErrIncompletePair)
	require.Empty(t, h.ActiveIDs())
	require.Equal(t, 1, h.Len())
}

func TestTogglePairFlipsBothNodes(t *testing.T) {
	h := NewHistory()

	id0 := h.AddUser(NewTextContent("one"))
	require.NoError(t, h.AddAssistant(id0, "first"))
	id1 := h.AddUser(NewTextContent("two"))
	require.NoError(t, h.AddAssistant(id1, "second"))

	require.NoError(t, h.Toggle(id0, boolPtr(false)))
	require.Equal(t, []int{id1}, h.ActiveIDs())

	messages := h.BuildMessages()
	require.Len(t, messages, 2)
	require.Equal(t, "two", messages[0].Content.Text)
	require.Equal(t, "second", messages[1].Content.Text)

	// nil desired inverts
	require.NoError(t, h.Toggle(id0, nil))
	require.Equal(t, []int{id0, id1}, h.ActiveIDs())
}

func TestToggleReactivatesOlderSystemNode(t *testing.T) {
	h := NewHistory()

	s1 := h.AddSystem("S1")
	s2 := h.AddSystem("S2")

	require.NoError(t, h.Toggle(s1, boolPtr(true)))

	id, ok := h.ActiveSystemID()
	require.True(t, ok)
	require.Equal(t, s1, id)

	messages := h.BuildMessages()
	require.Len(t, messages, 1)
	require.Equal(t, "S1", messages[0].Content.Text)

	// the other system node got deactivated
	require.NotContains(t, h.ActiveIDs(), s2)
}

func TestToggleSystemOff(t *testing.T) {
	h := NewHistory()
	s1 := h.AddSystem("S1")

	require.NoError(t, h.Toggle(s1, nil))
	_, ok := h.ActiveSystemID()
	require.False(t, ok)
	require.Empty(t, h.BuildMessages())
}

func TestClearKeepsSystemByDefault(t *testing.T) {
	h := NewHistory()
	s1 := h.AddSystem("S1")
	id := h.AddUser(NewTextContent("hi"))
	require.NoError(t, h.AddAssistant(id, "hello"))

	h.Clear(false)
	require.Equal(t, []int{s1}, h.ActiveIDs())
	require.Equal(t, 3, h.Len())

	h.Clear(true)
	require.Empty(t, h.ActiveIDs())
	require.Equal(t, 3, h.Len())
}

func TestStateRoundTripIdempotence(t *testing.T) {
	h := NewHistory()
	h.AddSystem("S1")
	id := h.AddUser(NewPartsContent([]Fragment{
		{"type": "text", "text": "look at this"},
		{"type": "image_url", "image_url": map[string]interface{}{"url": "https://example.com/a.png", "detail": "auto"}},
	}))
	require.NoError(t, h.AddAssistant(id, "nice"))
	h.AddUser(NewTextContent("pending"))

	first, err := json.Marshal(h.State())
	require.NoError(t, err)

	var state State
	require.NoError(t, json.Unmarshal(first, &state))
	restored := NewHistoryFromState(state)

	second, err := json.Marshal(restored.State())
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(second))

	// restored history keeps assigning fresh ids
	next := restored.AddUser(NewTextContent("more"))
	require.Equal(t, h.nextID, next)
}

func TestCloneIsIndependent(t *testing.T) {
	h := NewHistory()
	h.AddSystem("S1")
	id := h.AddUser(NewTextContent("hi"))
	require.NoError(t, h.AddAssistant(id, "hello"))

	dup := h.Clone()
	require.NoError(t, dup.Toggle(id, boolPtr(false)))
	dup.AddSystem("S2")
	dup.Clear(true)

	require.Equal(t, 3, h.Len())
	require.Contains(t, h.ActiveIDs(), id)

	messages := h.BuildMessages()
	require.Len(t, messages, 3)
	require.Equal(t, "S1", messages[0].Content.Text)
}

func TestContentJSONShapes(t *testing.T) {
	text := NewTextContent("plain")
	data, err := json.Marshal(text)
	require.NoError(t, err)
	require.JSONEq(t, `"plain"`, string(data))

	parts := NewPartsContent([]Fragment{{"type": "text", "text": "a"}})
	data, err = json.Marshal(parts)
	require.NoError(t, err)
	require.JSONEq(t, `[{"type":"text","text":"a"}]`, string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.IsParts())
	require.Equal(t, "a", decoded.String())
}

package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/parlance/pkg/content"
	"github.com/go-go-golems/parlance/pkg/conversation"
	"github.com/go-go-golems/parlance/pkg/usage"
)

// Session drives one linear conversation against a shared completion
// boundary. It exclusively owns its History and usage Tracker; the boundary
// is injected and shared read-only across sessions.
//
// A Session is meant for one logical caller at a time. Concurrent Send calls
// on the same Session are not supported and must be serialized by the caller.
type Session struct {
	ID      string
	Model   string
	History *conversation.History
	Usage   *usage.Tracker

	completer Completer
}

type SessionOption func(*Session)

// WithSystemPrompt seeds the session with one active system node.
func WithSystemPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.History.AddSystem(prompt)
	}
}

func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.ID = id
	}
}

func NewSession(completer Completer, model string, options ...SessionOption) *Session {
	ret := &Session{
		ID:        uuid.NewString(),
		Model:     model,
		History:   conversation.NewHistory(),
		Usage:     usage.NewTracker(),
		completer: completer,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// SetModel changes the model used by future requests.
func (s *Session) SetModel(model string) {
	s.Model = model
}

// SetSystemPrompt registers a new system prompt node and returns its id.
func (s *Session) SetSystemPrompt(prompt string) int {
	return s.History.AddSystem(prompt)
}

// ClearSystemPrompt deactivates the currently active system node. No-op when
// none is active.
func (s *Session) ClearSystemPrompt() {
	id, ok := s.History.ActiveSystemID()
	if !ok {
		return
	}
	off := false
	_ = s.History.Toggle(id, &off)
}

// Send submits one message built from the given parts and returns the
// assistant's reply text.
//
// Parts are strings or content.Part values. A single string part stays plain
// text; anything else becomes an ordered fragment list. The new user node is
// recorded inactive and only activates together with its assistant node once
// the round-trip succeeds.
//
// On boundary failure the user node stays permanently recorded and inactive:
// it is never retried and never removed, so the active set is unchanged from
// before the call. The error wraps the boundary's cause and matches
// ErrRequestFailed.
func (s *Session) Send(ctx context.Context, parts ...interface{}) (string, error) {
	if len(parts) == 0 {
		return "", ErrEmptyMessage
	}

	userContent, err := buildContent(parts)
	if err != nil {
		return "", err
	}

	id := s.History.AddUser(userContent)

	// The new node is not active yet, so BuildMessages skips it on purpose;
	// append it manually.
	messages := append(s.History.BuildMessages(), conversation.Message{
		Role:    conversation.RoleUser,
		Content: userContent,
	})
	activeIDs := append(s.History.ActiveIDs(), id)

	log.Debug().
		Str("session_id", s.ID).
		Str("model", s.Model).
		Int("node_id", id).
		Int("messages", len(messages)).
		Msg("sending message")

	reply, err := s.completer.Complete(ctx, s.Model, messages)
	if err != nil {
		log.Debug().Str("session_id", s.ID).Int("node_id", id).Err(err).
			Msg("completion failed, user node stays inactive")
		return "", &RequestError{Cause: err}
	}

	if err := s.History.AddAssistant(id, reply.Text); err != nil {
		return "", err
	}
	if len(reply.Usage) > 0 {
		s.Usage.Log(reply.Usage, s.Model, activeIDs)
	}

	return reply.Text, nil
}

func buildContent(parts []interface{}) (conversation.Content, error) {
	if len(parts) == 1 {
		if text, ok := textPart(parts[0]); ok {
			return conversation.NewTextContent(text), nil
		}
	}

	var fragments []conversation.Fragment
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			fragment, err := content.Text(p).Encode()
			if err != nil {
				return conversation.Content{}, err
			}
			fragments = append(fragments, fragment)
		case content.Part:
			fragment, err := p.Encode()
			if err != nil {
				return conversation.Content{}, err
			}
			fragments = append(fragments, fragment)
		default:
			return conversation.Content{}, errors.Wrapf(ErrUnsupportedContent, "part of type %T", part)
		}
	}
	return conversation.NewPartsContent(fragments), nil
}

func textPart(part interface{}) (string, bool) {
	switch p := part.(type) {
	case string:
		return p, true
	case content.Text:
		return string(p), true
	default:
		return "", false
	}
}

// Copy returns a deep-independent duplicate of the session's history and
// usage under a fresh id. The boundary connection is reused unless a
// replacement is supplied.
func (s *Session) Copy(completer Completer) *Session {
	if completer == nil {
		completer = s.completer
	}
	return &Session{
		ID:        uuid.NewString(),
		Model:     s.Model,
		History:   s.History.Clone(),
		Usage:     s.Usage.Clone(),
		completer: completer,
	}
}

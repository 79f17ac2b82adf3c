package session

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/parlance/pkg/conversation"
	"github.com/go-go-golems/parlance/pkg/usage"
)

type sessionState struct {
	Model   string             `json:"model"`
	History conversation.State `json:"history"`
	Usage   usage.State        `json:"usage"`
}

// Save persists the session as one JSON unit: model, history and usage.
func (s *Session) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create session file %s", path)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(sessionState{
		Model:   s.Model,
		History: s.History.State(),
		Usage:   s.Usage.State(),
	})
	if err != nil {
		return errors.Wrapf(err, "could not encode session state to %s", path)
	}

	log.Debug().Str("session_id", s.ID).Str("path", path).Msg("saved session")

	return nil
}

// Load reconstructs a session from a file written by Save, rebinding the
// given boundary connection. It fails with ErrNotFound when the file is
// missing and ErrMalformedState when required fields are absent or invalid.
func Load(path string, completer Completer) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "could not read session file %s", path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedState, "%s: %s", path, err)
	}
	for _, field := range []string{"model", "history", "usage"} {
		if _, ok := raw[field]; !ok {
			return nil, errors.Wrapf(ErrMalformedState, "%s: missing field %q", path, field)
		}
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrapf(ErrMalformedState, "%s: %s", path, err)
	}

	ret := NewSession(completer, state.Model)
	ret.History = conversation.NewHistoryFromState(state.History)
	ret.Usage = usage.NewTrackerFromState(state.Usage)

	log.Debug().Str("session_id", ret.ID).Str("path", path).Msg("loaded session")

	return ret, nil
}

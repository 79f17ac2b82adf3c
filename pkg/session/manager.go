package session

// Manager owns the one shared completion boundary and mints sessions bound
// to it. It never mutates persisted sources.
type Manager struct {
	completer Completer
}

func NewManager(completer Completer) *Manager {
	return &Manager{completer: completer}
}

// NewOpenAIManager is a convenience constructor wiring the OpenAI boundary.
// An empty apiKey falls back to the OPENAI_API_KEY environment variable.
func NewOpenAIManager(apiKey string, options ...OpenAIOption) *Manager {
	return NewManager(NewOpenAICompleter(apiKey, options...))
}

// NewSession creates a fresh session sharing this manager's boundary.
func (m *Manager) NewSession(model string, options ...SessionOption) *Session {
	return NewSession(m.completer, model, options...)
}

// LoadSession restores a persisted session and rebinds this manager's
// boundary.
func (m *Manager) LoadSession(path string) (*Session, error) {
	return Load(path, m.completer)
}

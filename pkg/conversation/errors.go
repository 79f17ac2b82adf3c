package conversation

import "errors"

var (
	ErrUnknownNode     = errors.New("no node with this id")
	ErrOrphanAssistant = errors.New("assistant reply has no matching user node")
	ErrIncompletePair  = errors.New("user/assistant pair is incomplete")
)

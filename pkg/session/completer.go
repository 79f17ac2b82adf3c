package session

import (
	"context"

	"github.com/go-go-golems/parlance/pkg/conversation"
	"github.com/go-go-golems/parlance/pkg/usage"
)

// Reply is what the completion boundary returns for one request. Usage is
// nil when the boundary reports no telemetry.
type Reply struct {
	Text  string
	Usage usage.Report
}

// Completer is the remote completion boundary. Implementations are expected
// to be safe for read-only sharing across sessions; transport and auth
// failures surface as opaque errors the session wraps.
type Completer interface {
	Complete(ctx context.Context, model string, messages []conversation.Message) (*Reply, error)
}

package worksheet

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Lipao9/sheeto/internal/model"
)

// CompletionClient is the external chat-completion collaborator. Complete
// sends a system+user prompt pair and returns the raw text of the first
// choice. Transport failures must surface as *TransportError.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator turns a worksheet request into worksheet text. Stateless: each
// call is independent and concurrent calls need no locking.
type Generator struct {
	apiKey string
	client CompletionClient
}

// NewGenerator creates a Generator. An empty apiKey selects fallback
// synthesis for every request; the client is never invoked in that case.
func NewGenerator(apiKey string, client CompletionClient) *Generator {
	return &Generator{apiKey: apiKey, client: client}
}

// Generate normalizes the request and produces the worksheet text.
//
// Without a configured credential the deterministic fallback is returned and
// no network call is attempted. With a credential the completion service is
// called; a transport failure propagates to the caller as-is. Fallback is
// selected only by credential presence, never as failure recovery, so a
// transient outage surfaces as an error instead of silently degraded content.
func (g *Generator) Generate(ctx context.Context, req model.WorksheetRequest) (string, error) {
	req = Normalize(req)

	if g.apiKey == "" {
		return Synthesize(req), nil
	}

	system, user := BuildPrompt(req)
	content, err := g.client.Complete(ctx, system, user)
	if err != nil {
		slog.Error("worksheet completion failed",
			"discipline", req.Discipline,
			"topic", req.Topic,
			"error", err,
		)
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

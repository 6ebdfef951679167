package agent

import (
	"context"

	"github.com/dusk-indust/magent/internal/magent"
)

// Compile-time interface checks.
var (
	_ Agent          = (*BaseAgent)(nil)
	_ magent.Handler = (*BaseAgent)(nil)
)

// ProcessFunc is the function that specialized agents implement to handle
// incoming messages. It returns the text of the reply.
type ProcessFunc func(ctx context.Context, msg magent.Message) (string, error)

// BaseAgent provides shared boilerplate for specialized agents. It
// composes a protocol server and implements both the Agent and
// magent.Handler interfaces. Specialized agents embed BaseAgent and
// provide a ProcessFunc.
type BaseAgent struct {
	server  *magent.Server
	card    magent.AgentCard
	process ProcessFunc
}

// NewBaseAgent creates a BaseAgent with the given card and process function.
func NewBaseAgent(card magent.AgentCard, process ProcessFunc) *BaseAgent {
	b := &BaseAgent{
		card:    card,
		process: process,
	}
	b.server = magent.NewServer(card, b)
	return b
}

// Card returns the agent's card.
func (b *BaseAgent) Card() magent.AgentCard {
	return b.card
}

// HandleMessage runs the process function and wraps its text in a reply
// message, propagating the inbound context and task ids.
func (b *BaseAgent) HandleMessage(ctx context.Context, msg magent.Message) (magent.Message, error) {
	text, err := b.process(ctx, msg)
	if err != nil {
		return magent.Message{}, err
	}
	return magent.Message{
		MessageID: magent.NewID(),
		ContextID: msg.ContextID,
		TaskID:    msg.TaskID,
		Role:      magent.RoleAgent,
		Parts:     []magent.Part{magent.NewTextPart(text)},
	}, nil
}

// Start launches the agent's HTTP server on the given address.
func (b *BaseAgent) Start(ctx context.Context, addr string) error {
	return b.server.Start(ctx, addr)
}

// Stop gracefully shuts down the agent.
func (b *BaseAgent) Stop(ctx context.Context) error {
	return b.server.Stop(ctx)
}

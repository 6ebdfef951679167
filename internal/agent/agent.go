package agent

import (
	"context"

	"github.com/dusk-indust/magent/internal/magent"
)

// Agent is the interface that all specialized agents implement.
type Agent interface {
	// Card returns the agent's card.
	Card() magent.AgentCard

	// HandleMessage processes an incoming message and returns the reply.
	HandleMessage(ctx context.Context, msg magent.Message) (magent.Message, error)

	// Start launches the agent's HTTP server on the given address.
	Start(ctx context.Context, addr string) error

	// Stop gracefully shuts down the agent.
	Stop(ctx context.Context) error
}

// Role identifies a specialized agent type.
type Role string

const (
	RoleEcho Role = "echo"
	RoleMath Role = "math"
)

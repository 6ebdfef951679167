package agent

import (
	"context"

	"github.com/dusk-indust/magent/internal/magent"
)

// EchoAgent is a specialized agent that echoes back the primary text part
// of a message. It embeds BaseAgent for the protocol plumbing.
type EchoAgent struct {
	*BaseAgent
}

// NewEchoAgent creates a new EchoAgent with its agent card and process
// function wired up.
func NewEchoAgent() *EchoAgent {
	ea := &EchoAgent{}
	card := magent.AgentCard{
		Name:               "EchoAgent",
		Description:        "A simple agent that echoes back the primary text part of a message.",
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}
	ea.BaseAgent = NewBaseAgent(card, ea.processMessage)
	return ea
}

func (ea *EchoAgent) processMessage(_ context.Context, msg magent.Message) (string, error) {
	text, ok := msg.Text()
	if !ok {
		return "EchoAgent: No text part found to echo.", nil
	}
	return "Echo: " + text, nil
}

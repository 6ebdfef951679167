package magent

import "context"

// Client is the outbound side of the protocol: sending messages to an
// agent's invoke endpoint and fetching its card.
type Client interface {
	// Invoke posts a message to the agent at baseURL and returns its reply.
	Invoke(ctx context.Context, baseURL string, msg Message) (*Message, error)

	// Discover fetches the agent card from the well-known endpoint.
	Discover(ctx context.Context, baseURL string) (*AgentCard, error)
}

package magent

import (
	"context"
	"net/http"
)

// Handler processes an incoming message and produces the reply. It is the
// single seam between the HTTP runtime and concrete agent logic.
type Handler interface {
	HandleMessage(ctx context.Context, msg Message) (Message, error)
}

// Server is the HTTP server that exposes an agent: its card at the
// well-known discovery endpoint and its handler at the invoke endpoint.
type Server struct {
	card    AgentCard
	handler Handler
	http    *http.Server
}

// NewServer creates a server for the given agent card and handler.
func NewServer(card AgentCard, handler Handler) *Server {
	return &Server{
		card:    card,
		handler: handler,
	}
}

// Card returns the agent card the server publishes.
func (s *Server) Card() AgentCard {
	return s.card
}

package coordinator

import (
	"sync"

	"github.com/dusk-indust/magent/internal/magent"
)

// Registry is a concurrency-safe name to agent-card mapping. Cards are
// kept in first-registration order; re-registering a name replaces the
// card in place without changing its position.
type Registry struct {
	mu    sync.RWMutex
	cards map[string]magent.AgentCard
	order []string
}

// NewRegistry returns an initialized empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		cards: make(map[string]magent.AgentCard),
	}
}

// Upsert adds or replaces the card under its name.
func (r *Registry) Upsert(card magent.AgentCard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cards[card.Name]; !exists {
		r.order = append(r.order, card.Name)
	}
	r.cards[card.Name] = card
}

// Get returns the card registered under name.
func (r *Registry) Get(name string) (magent.AgentCard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[name]
	return card, ok
}

// List returns all registered cards in first-registration order.
func (r *Registry) List() []magent.AgentCard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cards := make([]magent.AgentCard, 0, len(r.order))
	for _, name := range r.order {
		cards = append(cards, r.cards[name])
	}
	return cards
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cards)
}

package connectors

import (
	"sort"
	"sync"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ConnectorRegistry = (*Registry)(nil)

// Registry maps platforms to their connectors and publishers.
type Registry struct {
	mu         sync.RWMutex
	connectors map[domain.Platform]driven.ProviderConnector
	publishers map[domain.Platform]driven.Publisher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[domain.Platform]driven.ProviderConnector),
		publishers: make(map[domain.Platform]driven.Publisher),
	}
}

// Register adds a connector, replacing any previous one for its platform.
func (r *Registry) Register(connector driven.ProviderConnector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[connector.Platform()] = connector
}

// RegisterPublisher adds a publisher, replacing any previous one for its platform.
func (r *Registry) RegisterPublisher(publisher driven.Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[publisher.Platform()] = publisher
}

// Get returns the connector for a platform, or nil.
func (r *Registry) Get(platform domain.Platform) driven.ProviderConnector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connectors[platform]
}

// Platforms returns the registered platforms in sorted order.
func (r *Registry) Platforms() []domain.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Platform, 0, len(r.connectors))
	for p := range r.connectors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Publishers returns every registered publisher.
func (r *Registry) Publishers() []driven.Publisher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driven.Publisher, 0, len(r.publishers))
	for _, p := range r.publishers {
		out = append(out, p)
	}
	return out
}

// Configured reports whether the platform has a connector with client credentials.
func (r *Registry) Configured(platform domain.Platform) bool {
	c := r.Get(platform)
	return c != nil && c.Configured()
}

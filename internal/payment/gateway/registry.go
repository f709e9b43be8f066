package gateway

import (
	"strings"
	"sync"

	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
)

// Registry holds the configured payment gateways by provider name.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]paymentdomain.Gateway
}

func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]paymentdomain.Gateway)}
}

func (r *Registry) Register(gateway paymentdomain.Gateway) {
	if gateway == nil {
		return
	}
	name := strings.ToLower(strings.TrimSpace(gateway.Provider()))
	if name == "" {
		return
	}
	r.mu.Lock()
	r.gateways[name] = gateway
	r.mu.Unlock()
}

func (r *Registry) Resolve(provider string) (paymentdomain.Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gateway, ok := r.gateways[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, paymentdomain.ErrProviderNotFound
	}
	return gateway, nil
}

func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	return names
}

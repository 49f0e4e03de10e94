package handler

import (
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/deppfellow/freight-agent-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
//
// Loads and Carriers are nil when the running service does not expose them.
type Handlers struct {
	Health   *HealthHandler
	Loads    *LoadHandler
	Carriers *CarrierHandler
}

// NewHandlers constructs the handler container from the business layer.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	handlers := &Handlers{
		Health: NewHealthHandler(s),
	}

	if services.Loads != nil {
		handlers.Loads = NewLoadHandler(s, services.Loads)
	}
	if services.Carriers != nil {
		handlers.Carriers = NewCarrierHandler(s, services.Carriers)
	}

	return handlers
}

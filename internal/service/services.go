package service

import (
	"github.com/deppfellow/freight-agent-api/internal/repository"
	"github.com/deppfellow/freight-agent-api/internal/server"
)

// Services groups the business layer.
//
// Loads is nil when no load repository was built (the carrier service).
type Services struct {
	Auth     *AuthService
	Loads    *LoadService
	Carriers *CarrierService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	services := &Services{
		Auth:     NewAuthService(s),
		Carriers: NewCarrierService(s),
	}

	if repos != nil && repos.Loads != nil {
		services.Loads = NewLoadService(repos.Loads, s.Logger)
	}

	return services, nil
}

package service

import (
	"github.com/deppfellow/freight-agent-api/internal/server"
)

// AuthService checks API keys against the static allow-list.
//
// The set is built once at startup and only read afterwards.
type AuthService struct {
	keys map[string]struct{}
}

func NewAuthService(s *server.Server) *AuthService {
	return NewAPIKeySet(s.Config.Auth.Keys())
}

// NewAPIKeySet builds an AuthService from keys. Blank keys are ignored.
func NewAPIKeySet(keys []string) *AuthService {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return &AuthService{keys: set}
}

// Authenticate reports whether key is in the allow-list.
func (a *AuthService) Authenticate(key string) bool {
	if key == "" {
		return false
	}
	_, ok := a.keys[key]
	return ok
}

// Len reports how many keys are configured.
func (a *AuthService) Len() int {
	return len(a.keys)
}

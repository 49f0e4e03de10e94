package repository

import (
	"errors"
	"fmt"

	"github.com/deppfellow/freight-agent-api/internal/config"
	"github.com/deppfellow/freight-agent-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Loads LoadRepository
}

// NewRepositories constructs the repository container, picking the load
// store from config.
//
// The CSV store is read here, so a missing or malformed file fails startup.
// The Postgres store requires the server to have been built WithDatabase.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch s.Config.Loads.Source {
	case config.LoadSourcePostgres:
		if s.DB == nil {
			return nil, errors.New("postgres load source requires a database connection")
		}
		return &Repositories{
			Loads: NewPostgresLoadRepository(s.DB.Pool, s.Logger),
		}, nil

	case config.LoadSourceCSV, "":
		loads, err := NewCSVLoadRepository(s.Config.Loads.CSVPath, s.Logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{Loads: loads}, nil

	default:
		return nil, fmt.Errorf("unknown load source %q", s.Config.Loads.Source)
	}
}

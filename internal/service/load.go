package service

import (
	"context"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/deppfellow/freight-agent-api/internal/repository"
	"github.com/rs/zerolog"
)

// NoMatchingLoadsMessage accompanies an empty search result.
const NoMatchingLoadsMessage = "No matching loads found"

// LoadService applies the load matching policy.
type LoadService struct {
	repo   repository.LoadRepository
	logger *zerolog.Logger
}

func NewLoadService(repo repository.LoadRepository, logger *zerolog.Logger) *LoadService {
	return &LoadService{
		repo:   repo,
		logger: logger,
	}
}

// Search resolves q against the load store.
//
// A reference lookup takes precedence and ignores the lane fields entirely.
// Otherwise origin and destination are required; a query missing either is
// rejected before the store is touched. An empty result is not an error.
func (ls *LoadService) Search(ctx context.Context, q model.LoadQuery) (*model.LoadSearchResult, error) {
	var (
		loads []model.Load
		err   error
	)

	if q.ByReference() {
		refs := make([]string, 0, len(q.ReferenceNumbers))
		for _, ref := range q.ReferenceNumbers {
			refs = append(refs, model.NormalizeReference(ref))
		}
		loads, err = ls.repo.FindByReferences(ctx, refs)
	} else {
		if missing := q.MissingLaneParams(); len(missing) > 0 {
			return nil, errs.NewBadRequestError("Missing required parameters", errs.Details{
				"missing": missing,
			})
		}
		loads, err = ls.repo.FindByLane(ctx, q.Origin, q.Destination, q.Equipment)
	}

	if err != nil {
		return nil, err
	}

	if loads == nil {
		loads = make([]model.Load, 0)
	}

	result := &model.LoadSearchResult{
		Count:   len(loads),
		Results: loads,
	}
	if result.Count == 0 {
		result.Message = NoMatchingLoadsMessage
	}

	ls.logger.Debug().
		Bool("by_reference", q.ByReference()).
		Int("count", result.Count).
		Msg("load search completed")

	return result, nil
}

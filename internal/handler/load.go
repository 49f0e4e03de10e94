package handler

import (
	"strings"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/deppfellow/freight-agent-api/internal/service"
	"github.com/labstack/echo/v4"
)

// LoadSearchRequest holds the /loads query parameters.
//
// Every parameter may be repeated; reference_number values may also be
// comma-joined.
type LoadSearchRequest struct {
	ReferenceNumber []string `query:"reference_number"`
	Origin          []string `query:"origin"`
	Destination     []string `query:"destination"`
	EquipmentType   []string `query:"equipment_type"`
}

// References returns the requested reference numbers, split on commas,
// trimmed, uppercased, with blanks dropped.
func (r *LoadSearchRequest) References() []string {
	var refs []string
	for _, value := range r.ReferenceNumber {
		for _, ref := range strings.Split(value, ",") {
			if ref = model.NormalizeReference(ref); ref != "" {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// Query converts the request into a load query.
func (r *LoadSearchRequest) Query() model.LoadQuery {
	return model.LoadQuery{
		ReferenceNumbers: r.References(),
		Origin:           firstNonBlank(r.Origin),
		Destination:      firstNonBlank(r.Destination),
		Equipment:        firstNonBlank(r.EquipmentType),
	}
}

// Validate requires origin and destination unless reference numbers were given.
func (r *LoadSearchRequest) Validate() error {
	q := r.Query()
	if q.ByReference() {
		return nil
	}

	if missing := q.MissingLaneParams(); len(missing) > 0 {
		return errs.NewBadRequestError("Missing required parameters", errs.Details{
			"missing": missing,
		})
	}

	return nil
}

func firstNonBlank(values []string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// LoadHandler serves the load search endpoint.
type LoadHandler struct {
	Handler
	loadService *service.LoadService
}

func NewLoadHandler(s *server.Server, loadService *service.LoadService) *LoadHandler {
	return &LoadHandler{
		Handler:     NewHandler(s),
		loadService: loadService,
	}
}

// SearchLoads answers GET /loads.
func (h *LoadHandler) SearchLoads(c echo.Context, req *LoadSearchRequest) (*model.LoadSearchResult, error) {
	return h.loadService.Search(c.Request().Context(), req.Query())
}

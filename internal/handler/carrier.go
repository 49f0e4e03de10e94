package handler

import (
	"strings"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/deppfellow/freight-agent-api/internal/service"
	"github.com/deppfellow/freight-agent-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CarrierRequest carries the MC number path segment.
type CarrierRequest struct {
	MCNumber string `param:"mc_number" validate:"required,len=6,number"`
}

// Validate maps tag failures onto the two carrier errors: an empty number
// is "Missing MC number", anything else not six ASCII digits is an invalid
// format.
//
// Echo hands the rest of the path to a trailing parameter, so only the first
// segment is kept: /carriers/123456/extra verifies 123456.
func (r *CarrierRequest) Validate() error {
	if i := strings.IndexByte(r.MCNumber, '/'); i >= 0 {
		r.MCNumber = r.MCNumber[:i]
	}

	err := validation.Struct(r)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 && validationErrors[0].Tag() == "required" {
		return errs.NewBadRequestError("Missing MC number", nil)
	}

	return service.InvalidMCNumberError(r.MCNumber)
}

// CarrierHandler serves the carrier verification endpoint.
type CarrierHandler struct {
	Handler
	carrierService *service.CarrierService
}

func NewCarrierHandler(s *server.Server, carrierService *service.CarrierService) *CarrierHandler {
	return &CarrierHandler{
		Handler:        NewHandler(s),
		carrierService: carrierService,
	}
}

// VerifyCarrier answers GET /carriers/:mc_number.
func (h *CarrierHandler) VerifyCarrier(c echo.Context, req *CarrierRequest) (*model.CarrierVerification, error) {
	return h.carrierService.Verify(c.Request().Context(), req.MCNumber)
}

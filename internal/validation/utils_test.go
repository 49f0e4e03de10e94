package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchRequest struct {
	Origin string   `query:"origin" validate:"required"`
	Codes  []string `query:"code"`
	Limit  int      `query:"limit" validate:"omitempty,max=10"`
}

func (r *searchRequest) Validate() error {
	return Struct(r)
}

type customRequest struct {
	ID string `param:"id"`
}

func (r *customRequest) Validate() error {
	if r.ID == "bad" {
		return errs.NewBadRequestError("Bad id", errs.Details{"received": r.ID})
	}
	if r.ID == "custom" {
		return CustomValidationErrors{{Field: "id", Message: "is reserved"}}
	}
	return nil
}

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	return httpErr
}

func TestBindAndValidate_BindsQuery(t *testing.T) {
	c := newContext("/search?origin=Chicago&code=A,B&code=C&limit=3")

	req := &searchRequest{}
	require.NoError(t, BindAndValidate(c, req))

	assert.Equal(t, "Chicago", req.Origin)
	assert.Equal(t, []string{"A,B", "C"}, req.Codes)
	assert.Equal(t, 3, req.Limit)
}

func TestBindAndValidate_TagErrorsUseQueryNames(t *testing.T) {
	c := newContext("/search?limit=50")

	httpErr := asHTTPError(t, BindAndValidate(c, &searchRequest{}))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, errs.Details{
		"origin": "is required",
		"limit":  "must not exceed 10",
	}, httpErr.Details)
}

func TestBindAndValidate_BindError(t *testing.T) {
	c := newContext("/search?origin=x&limit=many")

	httpErr := asHTTPError(t, BindAndValidate(c, &searchRequest{}))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBindAndValidate_HTTPErrorPassesThrough(t *testing.T) {
	c := newContext("/items/bad")
	c.SetParamNames("id")
	c.SetParamValues("bad")

	httpErr := asHTTPError(t, BindAndValidate(c, &customRequest{}))
	assert.Equal(t, "Bad id", httpErr.Message)
	assert.Equal(t, errs.Details{"received": "bad"}, httpErr.Details)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newContext("/items/custom")
	c.SetParamNames("id")
	c.SetParamValues("custom")

	httpErr := asHTTPError(t, BindAndValidate(c, &customRequest{}))
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, errs.Details{"id": "is reserved"}, httpErr.Details)
}

// Package fmcsa provides a client for the FMCSA carrier registry.
//
// It performs a single GET per lookup, bounded by the configured timeout,
// and never retries. Outbound calls are recorded as New Relic external
// segments when the request context carries a transaction.
package fmcsa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/deppfellow/freight-agent-api/internal/config"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// ErrNotFound is returned when the registry answers 404 for an MC number.
var ErrNotFound = errors.New("carrier not found")

// UnavailableError means the registry could not give a usable answer:
// a transport failure, a non-2xx status other than 404, or an undecodable body.
type UnavailableError struct {
	// StatusCode is the upstream status, or 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fmcsa unavailable (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fmcsa unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Carrier is one entry of the registry's content list.
type Carrier struct {
	LegalName  string         `json:"legalName"`
	DOTNumber  FlexibleString `json:"dotNumber"`
	PhyCity    string         `json:"phyCity"`
	PhyState   string         `json:"phyState"`
	PhyZipcode string         `json:"phyZipcode"`
}

type lookupResponse struct {
	Content []Carrier `json:"content"`
}

// FlexibleString decodes a JSON string or number into a string.
//
// The registry reports dotNumber as either, depending on the endpoint.
type FlexibleString string

func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexibleString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errors.Wrap(err, "expected string or number")
	}
	*s = FlexibleString(num.String())
	return nil
}

// Client calls the registry's carrier lookup endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	webKey     string
	logger     *zerolog.Logger
}

// NewClient creates a registry client from cfg.
func NewClient(cfg config.FMCSAConfig, logger *zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		webKey:  cfg.WebKey,
		logger:  logger,
	}
}

// LookupCarrier fetches the registry record for mcNumber.
//
// It returns ErrNotFound on a 404, a nil Carrier when the content list is
// empty, and an *UnavailableError for every other failure.
func (c *Client) LookupCarrier(ctx context.Context, mcNumber string) (*Carrier, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(mcNumber) + "?" + url.Values{"webKey": {c.webKey}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(&UnavailableError{Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(&UnavailableError{Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(&UnavailableError{
			StatusCode: resp.StatusCode,
			Err:        errors.Errorf("unexpected status %s", resp.Status),
		})
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, errors.WithStack(&UnavailableError{
			StatusCode: resp.StatusCode,
			Err:        errors.Wrap(err, "failed to decode registry response"),
		})
	}

	c.logger.Debug().
		Str("mc_number", mcNumber).
		Int("records", len(body.Content)).
		Msg("fmcsa lookup completed")

	if len(body.Content) == 0 {
		return nil, nil
	}

	return &body.Content[0], nil
}

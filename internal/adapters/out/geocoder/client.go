// Package geocoder resolves addresses through a Google Geocoding compatible
// HTTP API.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"
	geocodePath    = "/maps/api/geocode/json"
	defaultTimeout = 10 * time.Second
)

// Error is returned for every failed lookup. It matches ports.ErrGeocodeFailure.
type Error struct {
	Address string
	// Status is the API status, e.g. ZERO_RESULTS, or empty for transport failures.
	Status     string
	HTTPStatus int
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %q", ports.ErrGeocodeFailure, e.Address)
	if e.Status != "" {
		fmt.Fprintf(&b, ": %s", e.Status)
	}
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (http %d)", e.HTTPStatus)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ports.ErrGeocodeFailure}
	}
	return []error{ports.ErrGeocodeFailure, e.Err}
}

// IsRetryable reports whether err is a geocoding failure worth another attempt.
func IsRetryable(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Retryable
}

type Client struct {
	BaseURL string
	Key     string
	// Region biases results towards a ccTLD, e.g. "lk". Optional.
	Region string
	HTTP   *http.Client
}

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Geocode returns the coordinates of the first result for address.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return kernel.Location{}, &Error{Address: address, Status: "INVALID_REQUEST", Err: errors.New("empty address")}
	}

	values := url.Values{}
	values.Set("address", address)
	values.Set("key", c.Key)
	if c.Region != "" {
		values.Set("region", c.Region)
	}

	var out response
	if err := c.get(ctx, address, values, &out); err != nil {
		return kernel.Location{}, err
	}

	switch out.Status {
	case "OK":
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return kernel.Location{}, &Error{Address: address, Status: out.Status, Retryable: true, Err: apiMessage(out)}
	default:
		return kernel.Location{}, &Error{Address: address, Status: out.Status, Err: apiMessage(out)}
	}
	if len(out.Results) == 0 {
		return kernel.Location{}, &Error{Address: address, Status: "ZERO_RESULTS"}
	}

	loc := out.Results[0].Geometry.Location
	location, err := kernel.NewLocation(loc.Lat, loc.Lng)
	if err != nil {
		return kernel.Location{}, &Error{Address: address, Status: out.Status, Err: err}
	}
	return location, nil
}

func (c *Client) get(ctx context.Context, address string, values url.Values, out *response) error {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u := strings.TrimRight(base, "/") + geocodePath + "?" + values.Encode()
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Address: address, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		// a cancelled caller is not worth retrying
		return &Error{Address: address, Retryable: ctx.Err() == nil, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Address: address, HTTPStatus: resp.StatusCode, Retryable: true, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &Error{
			Address:    address,
			HTTPStatus: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Address: address, HTTPStatus: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func apiMessage(out response) error {
	if out.ErrorMessage == "" {
		return nil
	}
	return errors.New(out.ErrorMessage)
}

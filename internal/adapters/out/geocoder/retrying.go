package geocoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Retrying retries transient failures of the wrapped geocoder with
// exponential backoff. Permanent failures such as ZERO_RESULTS return at once.
type Retrying struct {
	next   ports.Geocoder
	config RetryConfig
	logger *slog.Logger
}

func NewRetrying(next ports.Geocoder, config RetryConfig, logger *slog.Logger) *Retrying {
	return &Retrying{
		next:   next,
		config: config,
		logger: logger.With("component", "Geocoder"),
	}
}

func (r *Retrying) Geocode(ctx context.Context, address string) (kernel.Location, error) {
	var location kernel.Location
	operation := func() error {
		loc, err := r.next.Geocode(ctx, address)
		if err != nil {
			if IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		location = loc
		return nil
	}
	notify := func(err error, wait time.Duration) {
		r.logger.WarnContext(ctx, "geocoding failed, retrying", "address", address, "wait", wait, "error", err)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(r.policy(), ctx), notify)
	if err != nil {
		if !errors.Is(err, ports.ErrGeocodeFailure) {
			err = fmt.Errorf("%w: %w", ports.ErrGeocodeFailure, err)
		}
		return kernel.Location{}, err
	}
	return location, nil
}

func (r *Retrying) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialInterval
	b.MaxInterval = r.config.MaxInterval
	b.MaxElapsedTime = r.config.MaxElapsedTime
	return backoff.WithMaxRetries(b, r.config.MaxRetries)
}

// Package geoindex keeps the last known position of available drivers in
// memory, bucketed by geohash cell.
package geoindex

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"

	"github.com/mmcloughlin/geohash"
)

const (
	// DefaultPrecision gives cells of roughly 4.9 km x 4.9 km at the equator.
	DefaultPrecision uint = 5

	// maxCells bounds a cell walk; larger searches scan every bucket instead.
	maxCells = 4096
)

// PositionSource provides the positions the index is warmed with.
type PositionSource interface {
	Positions(ctx context.Context) ([]driver.Position, error)
}

// GeohashIndex holds available drivers only. A driver reported unavailable is
// dropped, so Nearby never returns one whose last known state is unavailable.
// It is kept current by the driver events it is subscribed to. Events are
// published after commit in no particular order, so a position older than
// the last one applied for its driver is ignored.
type GeohashIndex struct {
	mu        sync.RWMutex
	precision uint
	buckets   map[string]map[kernel.UUID]driver.Position
	cells     map[kernel.UUID]string
	versions  map[kernel.UUID]int
	logger    *slog.Logger
}

func NewGeohashIndex(precision uint, logger *slog.Logger) (*GeohashIndex, error) {
	if precision < 1 || precision > 12 {
		return nil, fmt.Errorf("geohash precision must be between 1 and 12, got %d", precision)
	}
	return &GeohashIndex{
		precision: precision,
		buckets:   make(map[string]map[kernel.UUID]driver.Position),
		cells:     make(map[kernel.UUID]string),
		versions:  make(map[kernel.UUID]int),
		logger:    logger.With("component", "GeohashIndex"),
	}, nil
}

// Warm loads every position from source. Existing entries are kept and
// overwritten where source has newer data.
func (i *GeohashIndex) Warm(ctx context.Context, source PositionSource) error {
	positions, err := source.Positions(ctx)
	if err != nil {
		return fmt.Errorf("warm geohash index: %w", err)
	}
	for _, p := range positions {
		i.Upsert(p)
	}
	i.logger.InfoContext(ctx, "geohash index warmed", "drivers", len(positions), "available", i.Len())
	return nil
}

// Upsert records p, or removes the driver when p is unavailable. It reports
// false when p is older than what the index already applied for the driver.
func (i *GeohashIndex) Upsert(p driver.Position) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if applied, ok := i.versions[p.DriverID]; ok && p.Version < applied {
		return false
	}
	i.versions[p.DriverID] = p.Version

	if !p.Available {
		i.removeLocked(p.DriverID)
		return true
	}

	cell := geohash.EncodeWithPrecision(p.Location.Latitude(), p.Location.Longitude(), i.precision)
	if prev, ok := i.cells[p.DriverID]; ok && prev != cell {
		i.removeFromBucket(prev, p.DriverID)
	}
	bucket, ok := i.buckets[cell]
	if !ok {
		bucket = make(map[kernel.UUID]driver.Position)
		i.buckets[cell] = bucket
	}
	bucket[p.DriverID] = p
	i.cells[p.DriverID] = cell
	return true
}

// Remove forgets the driver, including the last version applied for it.
func (i *GeohashIndex) Remove(driverID kernel.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(driverID)
	delete(i.versions, driverID)
}

// Len returns the number of indexed drivers.
func (i *GeohashIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.cells)
}

// Nearby returns the drivers in every cell that intersects the bounding box of
// the search circle.
func (i *GeohashIndex) Nearby(_ context.Context, center kernel.Location, radiusKm float64) ([]driver.Position, error) {
	box, err := center.BoundingBox(radiusKm)
	if err != nil {
		return nil, err
	}

	cells, ok := coveringCells(box, i.precision)

	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]driver.Position, 0)
	if !ok {
		for _, bucket := range i.buckets {
			for _, p := range bucket {
				if box.Contains(p.Location.Latitude(), p.Location.Longitude()) {
					out = append(out, p)
				}
			}
		}
		return out, nil
	}
	for _, cell := range cells {
		for _, p := range i.buckets[cell] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Handle applies driver state changes published after a commit.
func (i *GeohashIndex) Handle(ctx context.Context, event ddd.DomainEvent) error {
	e, ok := event.(driver.StateChangedEvent)
	if !ok {
		return nil
	}
	if !i.Upsert(e.Position) {
		i.logger.DebugContext(ctx, "stale driver position ignored",
			"driverID", e.Position.DriverID.String(), "version", e.Position.Version)
	}
	return nil
}

// EventNames lists the driver events the index must be subscribed to.
func (i *GeohashIndex) EventNames() []string {
	return []string{
		driver.RegisteredEventName,
		driver.LocationChangedEventName,
		driver.AvailabilityChangedEventName,
	}
}

func (i *GeohashIndex) removeLocked(driverID kernel.UUID) {
	cell, ok := i.cells[driverID]
	if !ok {
		return
	}
	i.removeFromBucket(cell, driverID)
	delete(i.cells, driverID)
}

func (i *GeohashIndex) removeFromBucket(cell string, driverID kernel.UUID) {
	bucket := i.buckets[cell]
	delete(bucket, driverID)
	if len(bucket) == 0 {
		delete(i.buckets, cell)
	}
}

// coveringCells lists the cells intersecting box by sampling it at one cell
// width and height, so no column or row of cells is skipped. It reports false
// when the walk would exceed maxCells.
func coveringCells(box kernel.BoundingBox, precision uint) ([]string, bool) {
	cell := geohash.BoundingBox(geohash.EncodeWithPrecision(box.MinLat, box.MinLng, precision))
	dLat := cell.MaxLat - cell.MinLat
	dLng := cell.MaxLng - cell.MinLng

	rows := math.Ceil((box.MaxLat-box.MinLat)/dLat) + 1
	cols := math.Ceil((box.MaxLng-box.MinLng)/dLng) + 1
	if rows*cols > maxCells {
		return nil, false
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, int(rows*cols))
	for lat := box.MinLat; ; lat += dLat {
		lat = math.Min(lat, box.MaxLat)
		for lng := box.MinLng; ; lng += dLng {
			lng = math.Min(lng, box.MaxLng)
			h := geohash.EncodeWithPrecision(lat, lng, precision)
			if _, dup := seen[h]; !dup {
				seen[h] = struct{}{}
				out = append(out, h)
			}
			if lng >= box.MaxLng {
				break
			}
		}
		if lat >= box.MaxLat {
			break
		}
	}
	return out, true
}

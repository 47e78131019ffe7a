package cmd

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const kmPerDegreeLat = 111.32

type seedOptions struct {
	restaurants int
	drivers     int
	lat         float64
	lng         float64
	radiusKm    float64
}

var seedOpts seedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo restaurants and drivers around a city center",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		root, err := NewCompositionRoot(cfg, db, logger)
		if err != nil {
			return err
		}
		return seed(cmd.Context(), root, seedOpts)
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.restaurants, "restaurants", 10, "number of restaurants")
	seedCmd.Flags().IntVar(&seedOpts.drivers, "drivers", 50, "number of drivers")
	seedCmd.Flags().Float64Var(&seedOpts.lat, "lat", 6.9271, "latitude of the city center")
	seedCmd.Flags().Float64Var(&seedOpts.lng, "lng", 79.8612, "longitude of the city center")
	seedCmd.Flags().Float64Var(&seedOpts.radiusKm, "radius-km", 8, "drivers are spread within this radius")
}

func seed(ctx context.Context, root *CompositionRoot, opts seedOptions) error {
	center, err := kernel.NewLocation(opts.lat, opts.lng)
	if err != nil {
		return err
	}
	fake := faker.New()

	createRestaurant := root.CreateCreateRestaurantCommandHandler()
	bar := progressbar.Default(int64(opts.restaurants), "restaurants")
	for range opts.restaurants {
		a := fake.Address()
		address, err := kernel.NewAddress(a.StreetAddress(), a.City(), a.State(), a.PostCode(), a.Country())
		if err != nil {
			return err
		}
		cmd, err := commands.NewCreateRestaurantCommand(kernel.NewUUID(), fake.Company().Name(), address)
		if err != nil {
			return err
		}
		if err = createRestaurant.Handle(ctx, cmd); err != nil {
			return fmt.Errorf("seed restaurant: %w", err)
		}
		_ = bar.Add(1)
	}

	createDriver := root.CreateCreateDriverCommandHandler()
	bar = progressbar.Default(int64(opts.drivers), "drivers")
	for range opts.drivers {
		location, err := randomPointNear(center, opts.radiusKm)
		if err != nil {
			return err
		}
		cmd, err := commands.NewCreateDriverCommand(kernel.NewUUID(), fake.Person().Name(), location)
		if err != nil {
			return err
		}
		if err = createDriver.Handle(ctx, cmd); err != nil {
			return fmt.Errorf("seed driver: %w", err)
		}
		_ = bar.Add(1)
	}
	return nil
}

// randomPointNear samples uniformly over a disc of radiusKm around center.
func randomPointNear(center kernel.Location, radiusKm float64) (kernel.Location, error) {
	r := radiusKm * math.Sqrt(rand.Float64())
	theta := 2 * math.Pi * rand.Float64()

	dLat := r * math.Cos(theta) / kmPerDegreeLat
	dLng := r * math.Sin(theta) / (kmPerDegreeLat * math.Cos(center.Latitude()*math.Pi/180))

	lat := math.Max(-90, math.Min(90, center.Latitude()+dLat))
	lng := math.Max(-180, math.Min(180, center.Longitude()+dLng))
	return kernel.NewLocation(lat, lng)
}

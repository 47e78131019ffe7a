package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkain "dispatch/internal/adapters/in/kafka"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, driver websocket hub, order consumer and retry job",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply schema migrations before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err = postgres.Migrate(db); err != nil {
			return err
		}
	}

	root, err := NewCompositionRoot(cfg, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = root.Close()
	}()
	if err = root.WarmIndex(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		root.Hub().Run(gctx)
		return nil
	})

	if cfg.KafkaEnabled() {
		producer, err := kafkaout.NewSyncProducer(cfg.KafkaBrokers, cfg.KafkaClientID)
		if err != nil {
			return err
		}
		root.EnablePublisher(producer)

		group, err := kafkain.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaClientID)
		if err != nil {
			return err
		}
		consumer := root.CreateOrderPlacedConsumer(group)
		defer func() {
			_ = consumer.Close()
		}()
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	} else {
		logger.Warn("KAFKA_BROKERS is empty, integration events are not published")
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := root.CreateEcho()
	if err != nil {
		return err
	}
	if level, err := cfg.SlogLevel(); err == nil {
		e.Logger.SetLevel(echoLogLevel(level))
	}

	g.Go(func() error {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := e.Start(":" + cfg.HTTPPort); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("dispatch stopped")
	return err
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Assigns marketplace orders to delivery drivers",
	Long: `dispatch tracks orders from confirmation to delivery. When an order goes out
for delivery it prices the trip, claims the nearest available driver and
records the delivery.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRuntime() (Config, *slog.Logger, error) {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return Config{}, nil, err
	}
	logger := NewLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openDB connects gorm with error translation on, which repositories rely on
// to detect unique violations.
func openDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

func echoLogLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	kafkain "dispatch/internal/adapters/in/kafka"
	"dispatch/internal/adapters/out/geocoder"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	IndexGeohash = "geohash"
	IndexSQL     = "sql"
)

type Config struct {
	HTTPPort string `mapstructure:"http_port"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	GeocoderBaseURL    string        `mapstructure:"geocoder_base_url"`
	GeocoderAPIKey     string        `mapstructure:"geocoder_api_key"`
	GeocoderRegion     string        `mapstructure:"geocoder_region"`
	GeocoderTimeout    time.Duration `mapstructure:"geocoder_timeout"`
	GeocoderMaxRetries uint64        `mapstructure:"geocoder_max_retries"`

	// KafkaBrokers is empty when Kafka is disabled.
	KafkaBrokers          []string        `mapstructure:"kafka_brokers"`
	KafkaClientID         string          `mapstructure:"kafka_client_id"`
	KafkaConsumerGroup    string          `mapstructure:"kafka_consumer_group"`
	KafkaOrderPlacedTopic string          `mapstructure:"kafka_order_placed_topic"`
	KafkaTopics           kafkaout.Topics `mapstructure:"kafka_topics"`

	DriverIndex      string  `mapstructure:"driver_index"`
	GeohashPrecision uint    `mapstructure:"geohash_precision"`
	SearchRadiusKm   float64 `mapstructure:"search_radius_km"`

	BaseFee         decimal.Decimal `mapstructure:"base_fee"`
	PerKmFee        decimal.Decimal `mapstructure:"per_km_fee"`
	MaxFee          decimal.Decimal `mapstructure:"max_fee"`
	FallbackFee     decimal.Decimal `mapstructure:"fallback_fee"`
	AverageSpeedKmh float64         `mapstructure:"average_speed_kmh"`

	MaxClaimAttempts        int           `mapstructure:"max_claim_attempts"`
	MaxAssignmentAttempts   int           `mapstructure:"max_assignment_attempts"`
	AssignmentTimeout       time.Duration `mapstructure:"assignment_timeout"`
	AssignmentRetrySchedule string        `mapstructure:"assignment_retry_schedule"`
	AssignmentRetryBatch    int           `mapstructure:"assignment_retry_batch"`

	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

func setDefaults(v *viper.Viper) {
	topics := kafkaout.DefaultTopics()

	defaults := map[string]any{
		"http_port":                         "8080",
		"db_host":                           "localhost",
		"db_port":                           "5432",
		"db_user":                           "postgres",
		"db_password":                       "",
		"db_name":                           "dispatch",
		"db_sslmode":                        "disable",
		"geocoder_base_url":                 geocoder.DefaultBaseURL,
		"geocoder_api_key":                  "",
		"geocoder_region":                   "",
		"geocoder_timeout":                  "5s",
		"geocoder_max_retries":              3,
		"kafka_brokers":                     "",
		"kafka_client_id":                   "dispatch",
		"kafka_consumer_group":              "dispatch",
		"kafka_order_placed_topic":          kafkain.DefaultOrderPlacedTopic,
		"kafka_topics.order_status_changed": topics.OrderStatusChanged,
		"kafka_topics.delivery_assigned":    topics.DeliveryAssigned,
		"kafka_topics.delivery_completed":   topics.DeliveryCompleted,
		"driver_index":                      IndexGeohash,
		"geohash_precision":                 5,
		"search_radius_km":                  services.DefaultSearchRadiusKm,
		"base_fee":                          services.DefaultBaseFee.String(),
		"per_km_fee":                        services.DefaultPerKmFee.String(),
		"max_fee":                           services.DefaultMaxFee.String(),
		"fallback_fee":                      services.DefaultFallbackFee.String(),
		"average_speed_kmh":                 services.DefaultAverageSpeedKmh,
		"max_claim_attempts":                3,
		"max_assignment_attempts":           10,
		"assignment_timeout":                "30s",
		"assignment_retry_schedule":         "@every 30s",
		"assignment_retry_batch":            50,
		"log_level":                         "info",
		"log_json":                          false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// LoadConfig reads envFile when it exists, then the process environment.
// Keys are the upper-cased field tags, nested ones joined by "_", for example
// KAFKA_TOPICS_DELIVERY_ASSIGNED.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToDecimalHook(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.KafkaBrokers = kafkaout.SplitBrokers(strings.Join(cfg.KafkaBrokers, ","))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DriverIndex != IndexGeohash && c.DriverIndex != IndexSQL {
		errs = append(errs, fmt.Errorf("DRIVER_INDEX must be %q or %q, got %q", IndexGeohash, IndexSQL, c.DriverIndex))
	}
	if c.SearchRadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_RADIUS_KM must be positive, got %v", c.SearchRadiusKm))
	}
	if c.AssignmentRetryBatch < 0 {
		errs = append(errs, fmt.Errorf("ASSIGNMENT_RETRY_BATCH must not be negative, got %d", c.AssignmentRetryBatch))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_JSON.
func NewLogger(c Config) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func stringToDecimalHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(decimal.Decimal{}) {
			return data, nil
		}
		switch from.Kind() { //nolint:exhaustive // other kinds are left to mapstructure
		case reflect.String:
			return decimal.NewFromString(data.(string))
		case reflect.Int, reflect.Int64:
			return decimal.NewFromInt(reflect.ValueOf(data).Int()), nil
		case reflect.Float64:
			return decimal.NewFromFloat(data.(float64)), nil
		default:
			return data, nil
		}
	}
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/configparser"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	"github.com/Temutjin2k/pivot-location/pkg/validator"
)

// Flags
var (
	modeFlag = flag.String("mode", string(types.LocationService), "application mode")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		HTTP      HTTPConfig
		Log       LogConfig
		Storage   StorageConfig
		Database  DatabaseConfig
		SQLite    SQLiteConfig
		Redis     RedisConfig
		DynamoDB  DynamoDBConfig
		Geocoder  GeocoderConfig
		Events    EventsConfig
		RabbitMQ  RabbitMQConfig
		MQTT      MQTTConfig
		WebSocket WebSocketConfig
		Auth      Auth
	}

	HTTPConfig struct {
		Port              int           `env:"HTTP_PORT" default:"5000"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" default:"10s"`
		ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	StorageConfig struct {
		// Driver backs users and, unless LocationStore is set, the location record.
		Driver types.StorageDriver `env:"STORAGE_DRIVER" default:"sqlite"`
		// LocationStore overrides the backend of the location record: redis or dynamodb.
		LocationStore types.StorageDriver `env:"STORAGE_LOCATION_STORE"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"pivot_user"`
		Password string `env:"DATABASE_PASSWORD" default:"pivot_pass"`
		Database string `env:"DATABASE_DATABASE" default:"pivot_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	SQLiteConfig struct {
		Path string `env:"SQLITE_PATH" default:"data/pivot.db"`
	}

	RedisConfig struct {
		Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	DynamoDBConfig struct {
		Region   string `env:"DYNAMODB_REGION" default:"us-east-1"`
		Endpoint string `env:"DYNAMODB_ENDPOINT"`
		Table    string `env:"DYNAMODB_TABLE" default:"pivot_locations"`
	}

	GeocoderConfig struct {
		Provider  types.GeocoderProvider `env:"GEOCODER_PROVIDER" default:"nominatim"`
		BaseURL   string                 `env:"GEOCODER_BASE_URL"`
		APIKey    string                 `env:"GEOCODER_API_KEY"`
		UserAgent string                 `env:"GEOCODER_USER_AGENT" default:"pivot_productivity_app_v1"`
		Timeout   time.Duration          `env:"GEOCODER_TIMEOUT" default:"10s"`
	}

	EventsConfig struct {
		Driver types.EventsDriver `env:"EVENTS_DRIVER" default:"none"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	MQTTConfig struct {
		Broker      string        `env:"MQTT_BROKER" default:"tcp://localhost:1883"`
		ClientID    string        `env:"MQTT_CLIENT_ID" default:"pivot-location"`
		Username    string        `env:"MQTT_USERNAME"`
		Password    string        `env:"MQTT_PASSWORD"`
		TopicPrefix string        `env:"MQTT_TOPIC_PREFIX" default:"pivot"`
		Timeout     time.Duration `env:"MQTT_TIMEOUT" default:"5s"`
	}

	WebSocketConfig struct {
		Enabled bool `env:"WEBSOCKET_ENABLED" default:"true"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"24h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" required:"true"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) PoolLimits() (int32, int32, time.Duration, time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// RecordStore returns the backend holding location records.
func (c StorageConfig) RecordStore() types.StorageDriver {
	if c.LocationStore != "" {
		return c.LocationStore
	}
	return c.Driver
}

// NewConfig loads envFile and the YAML file at filepath into the environment and parses it.
func NewConfig(filepath, envFile string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

// Validate checks enumerations that the env parser cannot.
func (c *Config) Validate() error {
	if !validator.PermittedValue(c.Storage.Driver, types.StoragePostgres, types.StorageSQLite) {
		return fmt.Errorf("%w: STORAGE_DRIVER %q must be postgres or sqlite", ErrInvalidConfig, c.Storage.Driver)
	}

	if !validator.PermittedValue(c.Storage.LocationStore, "", types.StoragePostgres, types.StorageSQLite, types.StorageRedis, types.StorageDynamoDB) {
		return fmt.Errorf("%w: unknown STORAGE_LOCATION_STORE %q", ErrInvalidConfig, c.Storage.LocationStore)
	}
	if ls := c.Storage.LocationStore; (ls == types.StoragePostgres || ls == types.StorageSQLite) && ls != c.Storage.Driver {
		return fmt.Errorf("%w: STORAGE_LOCATION_STORE %q must match STORAGE_DRIVER", ErrInvalidConfig, ls)
	}

	if !validator.PermittedValue(c.Events.Driver, types.EventsNone, types.EventsRabbitMQ, types.EventsMQTT) {
		return fmt.Errorf("%w: unknown EVENTS_DRIVER %q", ErrInvalidConfig, c.Events.Driver)
	}

	if !validator.PermittedValue(c.Geocoder.Provider, types.ProviderNominatim, types.ProviderLocationIQ) {
		return fmt.Errorf("%w: unknown GEOCODER_PROVIDER %q", ErrInvalidConfig, c.Geocoder.Provider)
	}
	if c.Geocoder.Provider == types.ProviderLocationIQ && c.Geocoder.APIKey == "" {
		return fmt.Errorf("%w: GEOCODER_API_KEY is required for locationiq", ErrInvalidConfig)
	}

	if !logger.ValidateLogLevel(c.Log.Level) {
		return fmt.Errorf("%w: LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", ErrInvalidConfig, c.Log.Level)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: HTTP_PORT %d out of range", ErrInvalidConfig, c.HTTP.Port)
	}

	return nil
}

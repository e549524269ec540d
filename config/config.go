package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode: map-service or archive-service")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidQoS      = errors.New("mqtt qos must be 0, 1 or 2")
	ErrInvalidDistance = errors.New("map max distance must be positive")
	ErrEmptyJWTSecret  = errors.New("auth jwt secret must be set for the operator api")
)

// DefaultJWTSecret is the development secret shipped in config.yaml.
const DefaultJWTSecret = "supersecretkey"

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode     types.ServiceMode
		LogLevel string `env:"LOG_LEVEL" default:"INFO"`

		MQTT              MQTTConfig
		Map               MapConfig
		Database          DatabaseConfig
		RabbitMQ          RabbitMQConfig
		ExternalAPIConfig ExternalAPIConfig
		Services          ServicesConfig
		Auth              Auth
	}

	MQTTConfig struct {
		BrokerURL      string        `env:"MQTT_BROKER_URL" default:"ws://broker.mqttdashboard.com:8000/mqtt"`
		ClientID       string        `env:"MQTT_CLIENT_ID" default:"smartrash-map"`
		Topic          string        `env:"MQTT_TOPIC" default:"huji_iot_class/2021_2022/smarTrash"`
		QoS            byte          `env:"MQTT_QOS" default:"0"`
		Username       string        `env:"MQTT_USERNAME"`
		Password       string        `env:"MQTT_PASSWORD"`
		KeepAlive      time.Duration `env:"MQTT_KEEP_ALIVE" default:"30s"`
		ConnectTimeout time.Duration `env:"MQTT_CONNECT_TIMEOUT" default:"10s"`

		// EmbeddedBroker runs an in-process broker and points the client at it.
		EmbeddedBroker     bool   `env:"MQTT_EMBEDDED_BROKER" default:"false"`
		EmbeddedBrokerAddr string `env:"MQTT_EMBEDDED_BROKER_ADDR" default:"127.0.0.1:1883"`
	}

	MapConfig struct {
		MaxDistance          float64 `env:"MAP_MAX_DISTANCE" default:"100"`
		AlertPercent         float64 `env:"MAP_ALERT_PERCENT" default:"20"`
		LegacyLongitudeScale bool    `env:"MAP_LEGACY_LONGITUDE_SCALE" default:"true"`
		CenterLat            float64 `env:"MAP_CENTER_LAT" default:"31.77480304008521"`
		CenterLng            float64 `env:"MAP_CENTER_LNG" default:"35.19783738032892"`
		Zoom                 int     `env:"MAP_ZOOM" default:"15"`
		Title                string  `env:"MAP_TITLE" default:"smarTrash"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"smartrash_user"`
		Password string `env:"DATABASE_PASSWORD" default:"smartrash_pass"`
		Database string `env:"DATABASE_DATABASE" default:"smartrash_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	ExternalAPIConfig struct {
		LocationIQapiKey string `env:"LOCATIONIQ_API_KEY"`
	}

	RabbitMQConfig struct {
		// Enabled turns on the marker event fan-out of the map service.
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`

		// OutboxSize bounds the marker events waiting to be published.
		OutboxSize int `env:"RABBITMQ_OUTBOX_SIZE" default:"1024"`
	}

	ServicesConfig struct {
		MapService     string `env:"SERVICES_MAP_SERVICE" default:"3000"`
		ArchiveService string `env:"SERVICES_ARCHIVE_SERVICE" default:"3001"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"12h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c DatabaseConfig) PoolLimits() (int32, int32, time.Duration, time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/",
	}
	return u.String()
}

// Broker returns the broker the client connects to.
func (c MQTTConfig) Broker() string {
	if c.EmbeddedBroker {
		return "tcp://" + c.EmbeddedBrokerAddr
	}
	return c.BrokerURL
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
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

func (c *Config) validate() error {
	if c.MQTT.QoS > 2 {
		return ErrInvalidQoS
	}
	if c.Map.MaxDistance <= 0 {
		return ErrInvalidDistance
	}
	if c.Mode == types.MapService && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrEmptyJWTSecret
	}
	return nil
}

// Warnings lists settings that work but should not reach production.
func (c *Config) Warnings() []string {
	var out []string
	if c.Mode == types.MapService && c.Auth.JWTSecret == DefaultJWTSecret {
		out = append(out, "AUTH_JWT_SECRET is the public development default, anyone can sign operator tokens")
	}
	return out
}

package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/configparser"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if err := configparser.ParseEnv(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Map.MaxDistance != 100 || cfg.Map.Zoom != 15 || !cfg.Map.LegacyLongitudeScale {
		t.Fatalf("unexpected map defaults %+v", cfg.Map)
	}
	if cfg.MQTT.Topic != "huji_iot_class/2021_2022/smarTrash" || cfg.MQTT.QoS != 0 {
		t.Fatalf("unexpected mqtt defaults %+v", cfg.MQTT)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Map: MapConfig{MaxDistance: 100}, MQTT: MQTTConfig{QoS: 3}}
	if err := cfg.validate(); err != ErrInvalidQoS {
		t.Fatalf("expected ErrInvalidQoS, got %v", err)
	}

	cfg = Config{Map: MapConfig{MaxDistance: 0}}
	if err := cfg.validate(); err != ErrInvalidDistance {
		t.Fatalf("expected ErrInvalidDistance, got %v", err)
	}
}

func TestValidate_JWTSecret(t *testing.T) {
	cfg := Config{Mode: types.MapService, Map: MapConfig{MaxDistance: 100}, Auth: Auth{JWTSecret: "  "}}
	if err := cfg.validate(); !errors.Is(err, ErrEmptyJWTSecret) {
		t.Fatalf("expected ErrEmptyJWTSecret, got %v", err)
	}

	// the archive service has no operator api
	cfg.Mode = types.ArchiveService
	if err := cfg.validate(); err != nil {
		t.Fatalf("archive service needs no secret: %v", err)
	}
}

func TestWarnings_DefaultJWTSecret(t *testing.T) {
	cfg := Config{Mode: types.MapService, Auth: Auth{JWTSecret: DefaultJWTSecret}}
	if w := cfg.Warnings(); len(w) != 1 || !strings.Contains(w[0], "AUTH_JWT_SECRET") {
		t.Fatalf("expected a secret warning, got %v", w)
	}

	cfg.Auth.JWTSecret = "a-real-secret"
	if w := cfg.Warnings(); len(w) != 0 {
		t.Fatalf("unexpected warnings %v", w)
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", Database: "bins"}
	if got := db.GetDSN(); got != "postgres://u:p%40ss@db:5432/bins?sslmode=disable" {
		t.Fatalf("got %s", got)
	}

	mq := RabbitMQConfig{Host: "mq", Port: "5672", User: "guest", Password: "guest"}
	if got := mq.GetDSN(); got != "amqp://guest:guest@mq:5672/" {
		t.Fatalf("got %s", got)
	}
}

func TestBroker(t *testing.T) {
	c := MQTTConfig{BrokerURL: "tcp://remote:1883", EmbeddedBrokerAddr: "127.0.0.1:1884"}
	if c.Broker() != "tcp://remote:1883" {
		t.Fatalf("got %s", c.Broker())
	}
	c.EmbeddedBroker = true
	if c.Broker() != "tcp://127.0.0.1:1884" {
		t.Fatalf("got %s", c.Broker())
	}
}

func TestPrintConfig_RedactsSecrets(t *testing.T) {
	cfg := &Config{
		Mode: "map-service",
		Auth: Auth{JWTSecret: "topsecret"},
		Database: DatabaseConfig{
			Password: "dbpass",
		},
		MQTT: MQTTConfig{Password: "mqttpass"},
	}

	var buf bytes.Buffer
	fprintConfig(&buf, cfg)
	out := buf.String()

	for _, s := range []string{"topsecret", "dbpass", "mqttpass"} {
		if strings.Contains(out, s) {
			t.Fatalf("secret %q leaked:\n%s", s, out)
		}
	}
	if !strings.Contains(out, "map-service") {
		t.Fatalf("mode missing:\n%s", out)
	}
}

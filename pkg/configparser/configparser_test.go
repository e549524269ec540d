package configparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	Broker struct {
		Host string `env:"CPTEST_BROKER_HOST" default:"localhost"`
		Port int    `env:"CPTEST_BROKER_PORT" default:"1883"`
		QoS  byte   `env:"CPTEST_BROKER_QOS" default:"0"`
	}
	MaxDistance float64       `env:"CPTEST_MAX_DISTANCE" default:"100"`
	Legacy      bool          `env:"CPTEST_LEGACY" default:"true"`
	Timeout     time.Duration `env:"CPTEST_TIMEOUT" default:"3s"`
	NoDefault   string        `env:"CPTEST_NO_DEFAULT"`
}

func unsetAfter(t *testing.T, keys ...string) {
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Broker.Host != "localhost" || cfg.Broker.Port != 1883 || cfg.Broker.QoS != 0 {
		t.Fatalf("unexpected broker defaults: %+v", cfg.Broker)
	}
	if cfg.MaxDistance != 100 || !cfg.Legacy || cfg.Timeout != 3*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.NoDefault != "" {
		t.Fatalf("field without default must stay empty, got %q", cfg.NoDefault)
	}
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("CPTEST_BROKER_PORT", "8883")
	t.Setenv("CPTEST_LEGACY", "false")
	t.Setenv("CPTEST_TIMEOUT", "250ms")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Broker.Port != 8883 || cfg.Legacy || cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("CPTEST_BROKER_PORT", "not-a-port")

	var cfg testConfig
	err := ParseEnv(&cfg)
	if err == nil || !strings.Contains(err.Error(), "CPTEST_BROKER_PORT") {
		t.Fatalf("expected error naming the variable, got %v", err)
	}
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	if err := ParseEnv(testConfig{}); err != ErrNotStructPointer {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}

func TestLoadYamlFile_NestedKeysAndSubstitution(t *testing.T) {
	unsetAfter(t, "CPYAML_MQTT_HOST", "CPYAML_MQTT_TOPIC", "CPYAML_MAP_MAX_DISTANCE", "CPYAML_MAP_ZOOM")
	t.Setenv("CPYAML_TOPIC_FROM_ENV", "bins/telemetry")

	yaml := `
# broker
cpyaml:
  mqtt:
    host: "broker.example.com"
    topic: ${CPYAML_TOPIC_FROM_ENV:-fallback}
  map:
    max_distance: 120 # centimeters
    zoom: ${CPYAML_UNSET_VAR:-15}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[string]string{
		"CPYAML_MQTT_HOST":        "broker.example.com",
		"CPYAML_MQTT_TOPIC":       "bins/telemetry",
		"CPYAML_MAP_MAX_DISTANCE": "120",
		"CPYAML_MAP_ZOOM":         "15",
	}
	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s: got %q want %q", k, got, v)
		}
	}
}

func TestLoadYamlFile_EnvWins(t *testing.T) {
	t.Setenv("CPWIN_HOST", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cpwin:\n  host: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("CPWIN_HOST"); got != "from-env" {
		t.Fatalf("file must not override env, got %q", got)
	}
}

func TestLoadAndParseYaml_MissingFileFallsBackToDefaults(t *testing.T) {
	var cfg testConfig
	if err := LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Broker.Host != "localhost" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

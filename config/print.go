package config

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

const redacted = "******"

// PrintConfig writes the effective configuration with secrets redacted.
func PrintConfig(cfg *Config) {
	fprintConfig(os.Stdout, cfg)
}

func fprintConfig(out io.Writer, cfg *Config) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	row := func(key string, value any) {
		fmt.Fprintf(w, "  %s\t%v\n", key, value)
	}

	fmt.Fprintln(w, "Configuration:")
	row("mode", cfg.Mode)
	row("log_level", cfg.LogLevel)

	row("mqtt.broker", cfg.MQTT.Broker())
	row("mqtt.client_id", cfg.MQTT.ClientID)
	row("mqtt.topic", cfg.MQTT.Topic)
	row("mqtt.qos", cfg.MQTT.QoS)
	row("mqtt.username", cfg.MQTT.Username)
	row("mqtt.password", secret(cfg.MQTT.Password))
	row("mqtt.embedded_broker", cfg.MQTT.EmbeddedBroker)

	row("map.max_distance", cfg.Map.MaxDistance)
	row("map.alert_percent", cfg.Map.AlertPercent)
	row("map.legacy_longitude_scale", cfg.Map.LegacyLongitudeScale)
	row("map.center", fmt.Sprintf("%v,%v", cfg.Map.CenterLat, cfg.Map.CenterLng))
	row("map.zoom", cfg.Map.Zoom)

	row("services.map_service", cfg.Services.MapService)
	row("services.archive_service", cfg.Services.ArchiveService)

	row("database.host", cfg.Database.Host+":"+cfg.Database.Port)
	row("database.user", cfg.Database.User)
	row("database.password", secret(cfg.Database.Password))
	row("database.database", cfg.Database.Database)

	row("rabbitmq.enabled", cfg.RabbitMQ.Enabled)
	row("rabbitmq.host", cfg.RabbitMQ.Host+":"+cfg.RabbitMQ.Port)
	row("rabbitmq.password", secret(cfg.RabbitMQ.Password))

	row("auth.access_token_ttl", cfg.Auth.AccessTokenTTL)
	row("auth.jwt_secret", secret(cfg.Auth.JWTSecret))
	row("locationiq.api_key", secret(cfg.ExternalAPIConfig.LocationIQapiKey))
}

func secret(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}

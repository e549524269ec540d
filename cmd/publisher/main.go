// Command publisher simulates a fleet of bins publishing telemetry to the broker.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Temutjin2k/smartrash/config"
	mqttadapter "github.com/Temutjin2k/smartrash/internal/adapter/mqtt"
	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/service/binmap"
	"github.com/Temutjin2k/smartrash/pkg/configparser"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	"github.com/Temutjin2k/smartrash/pkg/mqttclient"
)

const coordinateScale = 10000

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	bins       = flag.Int("bins", 5, "Number of simulated bins")
	interval   = flag.Duration("interval", 2*time.Second, "Delay between two rounds of readings")
	rounds     = flag.Int("rounds", 0, "Rounds to publish, 0 runs until interrupted")
	spread     = flag.Float64("spread", 0.005, "Max distance of a bin from the map center, in degrees")
)

type bin struct {
	id       string
	lat, lng float64
	distance float64
}

func main() {
	flag.Parse()

	var cfg config.Config
	if err := configparser.LoadAndParseYaml(*configPath, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.InitLogger("publisher", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mqttclient.New(ctx, mqttclient.Config{
		BrokerURL:      cfg.MQTT.Broker(),
		ClientID:       cfg.MQTT.ClientID + "-publisher-" + strconv.Itoa(rand.IntN(1e6)),
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		ConnectTimeout: cfg.MQTT.ConnectTimeout,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to connect to mqtt broker", err)
		os.Exit(1)
	}
	defer client.Close(250 * time.Millisecond)

	pub := mqttadapter.NewPublisher(client, cfg.MQTT.Topic, cfg.MQTT.QoS)
	fleet := newFleet(*bins, cfg.Map.CenterLat, cfg.Map.CenterLng, *spread, cfg.Map.MaxDistance)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for round := 1; *rounds == 0 || round <= *rounds; round++ {
		for i := range fleet {
			b := &fleet[i]
			b.fill(cfg.Map.MaxDistance)

			if err := pub.Publish(ctx, b.reading()); err != nil {
				log.Warn(ctx, "failed to publish reading", "device_id", b.id, "error", err.Error())
				continue
			}
			log.Debug(ctx, "reading published", "device_id", b.id, "distance", b.distance)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func newFleet(n int, lat, lng, spread, maxDistance float64) []bin {
	fleet := make([]bin, n)
	for i := range fleet {
		fleet[i] = bin{
			id:       strconv.Itoa(i + 1),
			lat:      lat + (rand.Float64()*2-1)*spread,
			lng:      lng + (rand.Float64()*2-1)*spread,
			distance: rand.Float64() * maxDistance,
		}
	}
	return fleet
}

// fill drops some trash in; a full bin gets emptied.
func (b *bin) fill(maxDistance float64) {
	b.distance -= rand.Float64() * maxDistance / 10
	if b.distance <= 0 {
		b.distance = maxDistance
	}
}

func (b *bin) reading() models.Reading {
	return models.Reading{
		ID:         b.id,
		GPSMessage: "$GPGGA",
		Distance:   models.Number(int(b.distance)),
		Lat:        models.Number(binmap.EncodeCoordinate(b.lat, coordinateScale)),
		LatScale:   coordinateScale,
		Long:       models.Number(binmap.EncodeCoordinate(b.lng, coordinateScale)),
		LongScale:  coordinateScale,
	}
}

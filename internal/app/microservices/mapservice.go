package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/handler"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/server"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/web"
	wshandler "github.com/Temutjin2k/smartrash/internal/adapter/http/ws"
	"github.com/Temutjin2k/smartrash/internal/adapter/locationIQ"
	mqttadapter "github.com/Temutjin2k/smartrash/internal/adapter/mqtt"
	rabbitadapter "github.com/Temutjin2k/smartrash/internal/adapter/rabbit"
	"github.com/Temutjin2k/smartrash/internal/service/auth"
	"github.com/Temutjin2k/smartrash/internal/service/binmap"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	"github.com/Temutjin2k/smartrash/pkg/mqttbroker"
	"github.com/Temutjin2k/smartrash/pkg/mqttclient"
	"github.com/Temutjin2k/smartrash/pkg/rabbit"
	ws "github.com/Temutjin2k/smartrash/pkg/wsHub"
)

const (
	markerStreamPath = "/ws/markers"
	mqttQuiesce      = 250 * time.Millisecond
)

type MapService struct {
	broker     *mqttbroker.Broker
	mqttClient *mqttclient.Client
	subscriber *mqttadapter.Subscriber
	rabbit     *rabbit.RabbitMQ
	outbox     *rabbitadapter.MarkerOutbox
	markerHub  *wshandler.MarkerHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewMap(ctx context.Context, cfg config.Config, log logger.Logger) (_ *MapService, err error) {
	s := &MapService{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	if cfg.MQTT.EmbeddedBroker {
		if s.broker, err = mqttbroker.New(cfg.MQTT.EmbeddedBrokerAddr, log); err != nil {
			log.Error(ctx, "Failed to setup embedded mqtt broker", err)
			return nil, err
		}
		if err = s.broker.Start(ctx); err != nil {
			log.Error(ctx, "Failed to start embedded mqtt broker", err)
			return nil, err
		}
	}

	var resolver binmap.AddressResolver
	if cfg.ExternalAPIConfig.LocationIQapiKey != "" {
		resolver = locationIQ.New(cfg.ExternalAPIConfig.LocationIQapiKey)
	}

	mapService := binmap.New(binmap.Config{
		MaxDistance:          cfg.Map.MaxDistance,
		AlertPercent:         cfg.Map.AlertPercent,
		LegacyLongitudeScale: cfg.Map.LegacyLongitudeScale,
	}, binmap.NewTracker(), resolver, log)

	s.markerHub = wshandler.NewMarkerHub(ws.NewConnHub(cfg.Mode.String(), log), mapService, log)
	mapService.OnUpdate(s.markerHub)
	mapService.OnRemoval(s.markerHub)

	checks := map[string]handler.HealthCheck{}

	if cfg.RabbitMQ.Enabled {
		if s.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log); err != nil {
			log.Error(ctx, "Failed to setup rabbitmq", err)
			return nil, err
		}
		producer := rabbitadapter.NewMarkerProducer(s.rabbit, cfg.Mode.String(), log)
		if err = producer.DeclareTopology(ctx); err != nil {
			log.Error(ctx, "Failed to declare rabbitmq topology", err)
			return nil, err
		}
		s.outbox = rabbitadapter.NewMarkerOutbox(producer, cfg.RabbitMQ.OutboxSize, cfg.Mode.String(), log)
		mapService.OnUpdate(s.outbox)
		checks["rabbitmq"] = s.rabbit.Ping
	}

	s.mqttClient, err = mqttclient.New(ctx, mqttclient.Config{
		BrokerURL:      cfg.MQTT.Broker(),
		ClientID:       cfg.MQTT.ClientID,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		KeepAlive:      cfg.MQTT.KeepAlive,
		ConnectTimeout: cfg.MQTT.ConnectTimeout,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to connect to mqtt broker", err)
		return nil, err
	}
	s.subscriber = mqttadapter.NewSubscriber(s.mqttClient, cfg.MQTT.Topic, cfg.MQTT.QoS, mapService, log)
	checks["mqtt"] = func(context.Context) error {
		if !s.mqttClient.IsConnected() {
			return mqttclient.ErrNotConnected
		}
		return nil
	}

	page, err := web.NewPage(web.PageConfig{
		Title:      cfg.Map.Title,
		CenterLat:  cfg.Map.CenterLat,
		CenterLng:  cfg.Map.CenterLng,
		Zoom:       cfg.Map.Zoom,
		StreamPath: markerStreamPath,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to render map page", err)
		return nil, err
	}

	s.httpServer, err = server.New(cfg, server.Deps{
		MapService:   mapService,
		Markers:      s.markerHub,
		Page:         page,
		Auth:         auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		HealthChecks: checks,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return s, nil
}

func (s *MapService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "map service closed")
	}()

	if s.outbox != nil {
		s.outbox.Start(ctx)
	}

	if err := s.subscriber.Start(ctx); err != nil {
		s.log.Error(ctx, "Failed to subscribe to bin telemetry", err)
		return err
	}

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Map service has been started", "topic", s.cfg.MQTT.Topic)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *MapService) close(ctx context.Context) {
	// stop the inflow first so no update lands on a closed hub
	if s.mqttClient != nil {
		s.mqttClient.Close(mqttQuiesce)
	}

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.markerHub != nil {
		s.markerHub.Close()
	}

	if s.outbox != nil {
		s.outbox.Close()
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.broker != nil {
		if err := s.broker.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close embedded mqtt broker", "error", err.Error())
		}
	}
}

package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/handler"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/server"
	repo "github.com/Temutjin2k/smartrash/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/smartrash/internal/adapter/rabbit"
	"github.com/Temutjin2k/smartrash/internal/service/archive"
	"github.com/Temutjin2k/smartrash/internal/service/auth"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	"github.com/Temutjin2k/smartrash/pkg/postgres"
	"github.com/Temutjin2k/smartrash/pkg/rabbit"
	"github.com/Temutjin2k/smartrash/pkg/trm"
)

type ArchiveService struct {
	postgresDB *postgres.PostgreDB
	rabbit     *rabbit.RabbitMQ
	consumer   *rabbitadapter.MarkerConsumer
	archive    *archive.Service
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewArchive(ctx context.Context, cfg config.Config, log logger.Logger) (_ *ArchiveService, err error) {
	s := &ArchiveService{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	if s.postgresDB, err = postgres.New(ctx, cfg.Database); err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}
	if err = repo.Migrate(ctx, s.postgresDB.Pool); err != nil {
		log.Error(ctx, "Failed to migrate database", err)
		return nil, err
	}

	archiveRepo := repo.NewArchiveRepo(s.postgresDB.Pool, cfg.Mode.String())
	s.archive = archive.New(archiveRepo, trm.New(s.postgresDB.Pool), log)

	if s.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log); err != nil {
		log.Error(ctx, "Failed to setup rabbitmq", err)
		return nil, err
	}
	s.consumer = rabbitadapter.NewMarkerConsumer(s.rabbit, cfg.Mode.String(), log)

	s.httpServer, err = server.New(cfg, server.Deps{
		ArchiveService: s.archive,
		Auth:           auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		HealthChecks: map[string]handler.HealthCheck{
			"postgres": s.postgresDB.Ping,
			"rabbitmq": s.rabbit.Ping,
		},
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return s, nil
}

func (s *ArchiveService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)

	consumeCtx, cancel := context.WithCancel(ctx)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := s.consumer.Consume(consumeCtx, s.archive.Store); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()

	defer func() {
		cancel()
		<-consumerDone
		s.close(ctx)
		s.log.Info(ctx, "archive service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Archive service has been started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *ArchiveService) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	s.postgresDB.Close()
}

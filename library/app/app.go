package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return errors.Wrap(err, "auth.NewTokenManager")
	}

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo")
	}

	stats, producer, err := newStatsLog(cfg.Kafka, log)
	if err != nil {
		return err
	}
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warn("producer.Close", zap.Error(err))
			}
		}()
	}

	svc := service.NewService(repo, tokens, stats, cfg.Auth.HashCost, log)
	h := handler.New(svc, tokens, handler.CookieConfig{
		TTL:    tokens.RefreshTTL(),
		Secure: cfg.Production(),
	}, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sig)

	return serve(srv, sig, log)
}

type httpServer interface {
	Run() error
	Stop(ctx context.Context) error
}

// serve runs srv until it fails or a signal arrives, then shuts it down.
func serve(srv httpServer, sig <-chan os.Signal, log *zap.Logger) error {
	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run() }()

	select {
	case err := <-runErr:
		if err != nil {
			return errors.Wrap(err, "server run")
		}
		return nil
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
		return errors.Wrap(err, "server stop")
	}
	log.Info("Graceful shutdown finished")
	return nil
}

func newStatsLog(cfg kafka.Config, log *zap.Logger) (kafka.StatsLog, sarama.SyncProducer, error) {
	if !cfg.Enabled() {
		log.Info("kafka is not configured, stats are disabled")
		return kafka.NopStatsLog(), nil, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "kafka.NewProducer")
	}
	return kafka.NewStatsLog(producer, cfg.Topic), producer, nil
}

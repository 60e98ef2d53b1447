package microservices

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/pivot-location/config"
	"github.com/Temutjin2k/pivot-location/internal/adapter/dynamo"
	"github.com/Temutjin2k/pivot-location/internal/adapter/http/handler"
	"github.com/Temutjin2k/pivot-location/internal/adapter/http/server"
	mqttproducer "github.com/Temutjin2k/pivot-location/internal/adapter/mqtt"
	"github.com/Temutjin2k/pivot-location/internal/adapter/nominatim"
	pgrepo "github.com/Temutjin2k/pivot-location/internal/adapter/postgres"
	rabbitproducer "github.com/Temutjin2k/pivot-location/internal/adapter/rabbit"
	redisrepo "github.com/Temutjin2k/pivot-location/internal/adapter/redis"
	sqliterepo "github.com/Temutjin2k/pivot-location/internal/adapter/sqlite"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/internal/service/auth"
	"github.com/Temutjin2k/pivot-location/internal/service/location"
	pkgdynamo "github.com/Temutjin2k/pivot-location/pkg/dynamo"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/mqtt"
	"github.com/Temutjin2k/pivot-location/pkg/postgres"
	"github.com/Temutjin2k/pivot-location/pkg/rabbit"
	pkgredis "github.com/Temutjin2k/pivot-location/pkg/redis"
	"github.com/Temutjin2k/pivot-location/pkg/sqlite"
	"github.com/Temutjin2k/pivot-location/pkg/trm"
	ws "github.com/Temutjin2k/pivot-location/pkg/wsHub"
	goredis "github.com/redis/go-redis/v9"
)

var ErrRabbitClosed = errors.New("rabbitmq connection closed")

type LocationService struct {
	postgresDB  *postgres.PostgreDB
	sqliteDB    *sqlite.DB
	redisClient *goredis.Client
	rabbitMQ    *rabbit.RabbitMQ
	mqttClient  *mqtt.Client
	connHub     *ws.ConnectionHub
	httpServer  *server.API

	cfg config.Config
	log logger.Logger
}

// storage groups the repositories picked by configuration.
type storage struct {
	users   location.UserRepo
	records location.LocationRecordRepo
	trm     trm.TxManager
	checks  map[string]handler.Pinger
}

func NewLocation(ctx context.Context, cfg config.Config, log logger.Logger) (_ *LocationService, err error) {
	ctx = wrap.WithAction(ctx, "location_service_init")
	s := &LocationService{cfg: cfg, log: log}

	// release whatever was opened if a later step fails
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	st, err := s.initStorage(ctx)
	if err != nil {
		log.Error(ctx, "Failed to setup storage", err)
		return nil, err
	}

	publisher, err := s.initPublisher(ctx, st.checks)
	if err != nil {
		log.Error(ctx, "Failed to setup event publisher", err)
		return nil, err
	}

	geocoder := nominatim.New(nominatim.Config{
		Provider:  string(cfg.Geocoder.Provider),
		BaseURL:   cfg.Geocoder.BaseURL,
		APIKey:    cfg.Geocoder.APIKey,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   cfg.Geocoder.Timeout,
	})

	var (
		notifier location.Notifier
		feed     *handler.LocationFeed
	)
	if cfg.WebSocket.Enabled {
		s.connHub = ws.NewConnHub(string(cfg.Mode), log)
		feed = handler.NewLocationFeed(s.connHub, log)
		notifier = feed
	}

	locationService := location.New(geocoder, st.records, st.users, publisher, notifier, st.trm, log)

	tokenService := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := auth.NewAuthService(st.users, tokenService, log)

	s.httpServer, err = server.New(
		server.Config{
			Port:              cfg.HTTP.Port,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
		},
		cfg.Mode,
		handler.NewHealth(string(cfg.Mode), string(cfg.Storage.Driver), st.checks, log),
		handler.NewLocation(locationService, log),
		feed,
		authService,
		log,
	)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return s, nil
}

func (s *LocationService) initStorage(ctx context.Context) (*storage, error) {
	st := &storage{
		trm:    trm.Nop{},
		checks: make(map[string]handler.Pinger),
	}

	switch s.cfg.Storage.Driver {
	case types.StoragePostgres:
		db, err := postgres.New(ctx, s.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.postgresDB = db

		st.users = pgrepo.NewUserRepo(db.Pool)
		st.records = pgrepo.NewLocationRecordRepo(db.Pool)
		st.trm = trm.New(db.Pool)
		st.checks["postgres"] = db.Pool.Ping
	case types.StorageSQLite:
		db, err := sqlite.Open(ctx, s.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		s.sqliteDB = db

		if err := sqliterepo.InitSchema(ctx, db.DB); err != nil {
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}

		st.users = sqliterepo.NewUserRepo(db.DB)
		st.records = sqliterepo.NewLocationRecordRepo(db.DB)
		st.checks["sqlite"] = db.DB.PingContext
	default:
		return nil, fmt.Errorf("%w: storage driver %q", config.ErrInvalidConfig, s.cfg.Storage.Driver)
	}

	switch s.cfg.Storage.LocationStore {
	case types.StorageRedis:
		client, err := pkgredis.New(ctx, pkgredis.Config{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.redisClient = client

		st.records = redisrepo.NewLocationRecordRepo(client)
		st.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	case types.StorageDynamoDB:
		client, err := pkgdynamo.New(ctx, pkgdynamo.Config{
			Region:   s.cfg.DynamoDB.Region,
			Endpoint: s.cfg.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: %w", err)
		}

		repo := dynamo.NewLocationRecordRepo(client, s.cfg.DynamoDB.Table)
		st.records = repo
		st.checks["dynamodb"] = repo.Ping
	}

	s.log.Info(ctx, "storage initialized",
		"driver", s.cfg.Storage.Driver,
		"location_store", s.cfg.Storage.RecordStore(),
	)

	return st, nil
}

// initPublisher returns nil when events are disabled.
func (s *LocationService) initPublisher(ctx context.Context, checks map[string]handler.Pinger) (location.EventPublisher, error) {
	switch s.cfg.Events.Driver {
	case types.EventsRabbitMQ:
		mq, err := rabbit.New(ctx, s.cfg.RabbitMQ.GetDSN(), s.log)
		if err != nil {
			return nil, err
		}
		s.rabbitMQ = mq

		if err := mq.DeclareTopicExchange(rabbitproducer.LocationExchange); err != nil {
			return nil, fmt.Errorf("declare exchange: %w", err)
		}
		checks["rabbitmq"] = func(context.Context) error {
			if mq.IsConnectionClosed() {
				return ErrRabbitClosed
			}
			return nil
		}

		return rabbitproducer.NewLocationProducer(mq), nil
	case types.EventsMQTT:
		client, err := mqtt.New(ctx, mqtt.Config{
			Broker:   s.cfg.MQTT.Broker,
			ClientID: s.cfg.MQTT.ClientID,
			Username: s.cfg.MQTT.Username,
			Password: s.cfg.MQTT.Password,
			Timeout:  s.cfg.MQTT.Timeout,
		}, s.log)
		if err != nil {
			return nil, err
		}
		s.mqttClient = client

		return mqttproducer.NewLocationProducer(client, s.cfg.MQTT.TopicPrefix), nil
	default:
		return nil, nil
	}
}

func (s *LocationService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "location service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	s.log.Info(ctx, "location service started", "port", s.cfg.HTTP.Port)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

// close releases resources in reverse order of creation. Safe on a partially built service.
func (s *LocationService) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.connHub != nil {
		s.connHub.Close()
	}

	if s.mqttClient != nil {
		s.mqttClient.Close()
	}

	if s.rabbitMQ != nil {
		if err := s.rabbitMQ.Close(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis", "error", err.Error())
		}
	}

	if s.sqliteDB != nil {
		if err := s.sqliteDB.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close sqlite", "error", err.Error())
		}
	}

	if s.postgresDB != nil && s.postgresDB.Pool != nil {
		s.postgresDB.Pool.Close()
	}
}

// Command server wires the platform together: stores, services, the event
// pipeline, and the HTTP surface. Business logic lives in the internal
// services; this file only assembles and supervises them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	deskhandler "propdesk/internal/desk/handler"
	deskmetrics "propdesk/internal/desk/metrics"
	deskservice "propdesk/internal/desk/service"
	deskstore "propdesk/internal/desk/store"
	deskpostgres "propdesk/internal/desk/store/postgres"
	governanceconfig "propdesk/internal/governance/config"
	governancehandler "propdesk/internal/governance/handler"
	governancemetrics "propdesk/internal/governance/metrics"
	governanceservice "propdesk/internal/governance/service"
	governancestore "propdesk/internal/governance/store"
	"propdesk/internal/governance/store/cooldown"
	identityhandler "propdesk/internal/identity/handler"
	identitymetrics "propdesk/internal/identity/metrics"
	identityservice "propdesk/internal/identity/service"
	identitystore "propdesk/internal/identity/store"
	"propdesk/internal/jwttoken"
	"propdesk/internal/platform/config"
	"propdesk/internal/platform/httpserver"
	"propdesk/internal/platform/logger"
	platformredis "propdesk/internal/platform/redis"
	httptransport "propdesk/internal/transport/http"
	"propdesk/internal/verifier"
	"propdesk/pkg/platform/eventlog"
	eventkafka "propdesk/pkg/platform/eventlog/kafka"
	eventpostgres "propdesk/pkg/platform/eventlog/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event pipeline: the in-memory log is authoritative; durable sinks are
	// drained asynchronously so slow backends never block an invocation.
	memoryLog := eventlog.NewInMemoryLog()
	sinks := []eventlog.Log{memoryLog}

	inbox := make(chan eventlog.Record, 256)
	var workerSinks []eventlog.Log
	if cfg.Postgres.EventLogDSN != "" {
		pgLog, err := eventpostgres.Open(ctx, cfg.Postgres.EventLogDSN)
		if err != nil {
			log.Error("event log postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer pgLog.Close()
		workerSinks = append(workerSinks, pgLog)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := eventkafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka publisher unavailable", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		workerSinks = append(workerSinks, publisher)
	}
	if len(workerSinks) > 0 {
		sinks = append(sinks, eventlog.NewChannelLog(inbox))
	}
	events := eventlog.NewFanout(sinks...)

	// Cooldown store: Redis when configured, in-process otherwise.
	governanceCfg := governanceconfig.FromEnv()
	var cooldowns governanceservice.CooldownStore = cooldown.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cooldowns = cooldown.NewRedisStore(redisClient.Client, 7*24*time.Hour)
	}

	// Optional durable trade archive.
	var archive deskservice.TradeArchive
	if cfg.Postgres.TradeArchiveDSN != "" {
		trades, err := deskpostgres.Open(ctx, cfg.Postgres.TradeArchiveDSN)
		if err != nil {
			log.Error("trade archive unavailable", "error", err)
			os.Exit(1)
		}
		defer trades.Close()
		archive = trades
	}

	verifiers := verifier.NewStubSet()

	identity := identityservice.New(
		identitystore.NewInMemory(),
		verifiers,
		eventlog.NewEmitter(eventlog.ComponentIdentity, events),
		log,
		identitymetrics.New(),
	)
	governance := governanceservice.New(
		governancestore.NewInMemory(),
		cooldowns,
		identity,
		verifiers.ExternalData,
		governanceCfg,
		eventlog.NewEmitter(eventlog.ComponentGovernance, events),
		log,
		governancemetrics.New(),
	)
	desk := deskservice.New(
		cfg.Server.Owner,
		deskstore.NewInMemory(),
		archive,
		eventlog.NewEmitter(eventlog.ComponentPlatform, events),
		log,
		deskmetrics.New(),
	)

	tokens := jwttoken.NewService(cfg.Server.JWTSigningKey, "propdesk")
	router := httptransport.NewRouter(httptransport.Handlers{
		Identity:   identityhandler.New(identity, log),
		Governance: governancehandler.New(governance, log),
		Desk:       deskhandler.New(desk, identity, governance, log),
	}, tokens, log)

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	if len(workerSinks) > 0 {
		worker := eventlog.NewWorker(eventlog.NewFanout(workerSinks...), inbox)
		group.Go(func() error {
			if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		log.Info("starting propdesk", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

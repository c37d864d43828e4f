package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"travelJournal/internal/auth"
	"travelJournal/internal/config"
	"travelJournal/internal/db"
	grpcserver "travelJournal/internal/grpc"
	"travelJournal/internal/logging"
	"travelJournal/internal/telemetry"
	"travelJournal/internal/uploads"
	"travelJournal/internal/web"
	"travelJournal/repository"
)

const serviceName = "travel-journal"

func main() {
	rollback := flag.Bool("rollback", false, "roll back the last applied migration and exit")
	flag.Parse()

	devSecret := false
	cfg, err := config.Load()
	if err != nil {
		// Local runs without SESSION_SECRET fall back to the development secret.
		cfg, err = config.LoadWithDefaults()
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		devSecret = true
	}

	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		Format:  logging.ParseFormat(cfg.Log.Format),
		Output:  os.Stdout,
		Service: serviceName,
	})
	slog.SetDefault(log)
	if devSecret {
		log.Warn("SESSION_SECRET not set, sessions are signed with the development secret")
	}
	log.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg, log, *rollback); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, rollback bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, serviceName, telemetry.Config{
		Endpoint: cfg.Telemetry.Endpoint,
		Insecure: cfg.Telemetry.Insecure,
	}, log)

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", "error", err)
		}
	}()

	if rollback {
		if err := db.RollbackLast(d); err != nil {
			return err
		}
		log.Info("rolled back last migration", "db", cfg.Database.Path)
		return nil
	}

	store, err := uploads.New(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	codec := auth.NewSessionCodec(cfg.Auth.SessionSecret, cfg.Auth.CookieName, cfg.Auth.SessionTTL,
		auth.WithSecureCookie(cfg.Auth.SecureCookie))

	e, err := web.New(web.Deps{
		Users:          repository.NewUserRepository(d),
		Journeys:       repository.NewJourneyRepository(d),
		Events:         repository.NewEventRepository(d),
		Uploads:        store,
		Codec:          codec,
		Logger:         log,
		LoginPerMinute: cfg.RateLimit.LoginPerMinute,
		LoginBurst:     cfg.RateLimit.LoginBurst,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: otelhttp.NewHandler(e, serviceName),
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("http listening", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stopGRPC, err := grpcserver.StartGRPC(cfg, codec, d, log)
	if err != nil {
		_ = srv.Close()
		return err
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errc:
		log.Error("http server", "error", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(sctx); serr != nil {
		log.Error("http shutdown", "error", serr)
	}
	if serr := stopGRPC(sctx); serr != nil {
		log.Error("grpc shutdown", "error", serr)
	}
	if serr := shutdownTracing(sctx); serr != nil {
		log.Error("tracing shutdown", "error", serr)
	}
	return err
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/imagefield/pkg/config"
	"github.com/dmitrymomot/imagefield/pkg/imagefield"
	"github.com/dmitrymomot/imagefield/pkg/imagefield/web"
	"github.com/dmitrymomot/imagefield/pkg/logger"
)

const serviceName = "imagefield"

// ServerConfig is the demo server configuration.
type ServerConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
	BasePath        string        `env:"FIELDS_BASE_PATH" envDefault:"/fields"`
	DemoFieldID     string        `env:"DEMO_FIELD_ID" envDefault:"logo"`
	DemoFieldLabel  string        `env:"DEMO_FIELD_LABEL" envDefault:"Logo"`
}

func main() {
	var (
		srvCfg   ServerConfig
		fieldCfg imagefield.Config
	)
	config.MustLoad(&srvCfg)
	config.MustLoad(&fieldCfg)

	logOpts := []logger.Option{
		logger.WithEnvironment(srvCfg.Env, serviceName),
		logger.WithLevelName(srvCfg.LogLevel),
		logger.WithContextExtractors(logger.FieldIDExtractor),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	}
	if srvCfg.LogFormat != "" {
		logOpts = append(logOpts, logger.WithFormat(logger.Format(srvCfg.LogFormat)))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if err := run(srvCfg, fieldCfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(srvCfg ServerConfig, fieldCfg imagefield.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := web.NewRegistry(
		imagefield.WithConfig(fieldCfg),
		imagefield.WithLogger(log),
	)
	defer registry.Close()

	if _, err := registry.Register(srvCfg.DemoFieldID, srvCfg.DemoFieldLabel, ""); err != nil {
		return err
	}

	svc := web.New(registry,
		web.WithLogger(log),
		web.WithBasePath(srvCfg.BasePath),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srvCfg.BasePath+"/"+srvCfg.DemoFieldID, http.StatusFound)
	})
	r.Mount(srvCfg.BasePath, svc.Handle())

	srv := &http.Server{
		Addr:         srvCfg.Addr,
		Handler:      r,
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", slog.String("addr", srvCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), srvCfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Join(ErrShutdown, err)
		}
		return nil
	})

	return g.Wait()
}

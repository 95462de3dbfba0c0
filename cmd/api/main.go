package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/config"
	"github.com/gestaozabele/cidadao/internal/db"
	internalhttp "github.com/gestaozabele/cidadao/internal/http"
	"github.com/gestaozabele/cidadao/internal/logging"
	"github.com/gestaozabele/cidadao/internal/repo"
	"github.com/gestaozabele/cidadao/internal/service"
	"github.com/gestaozabele/cidadao/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	errLog, err := logging.NewErrorLog(cfg.ErrorLogPath)
	if err != nil {
		return fmt.Errorf("error log: %w", err)
	}
	defer errLog.Close()

	ctx := context.Background()

	if cfg.AutoMigrate {
		migrator, err := db.NewMigrator(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("migrator: %w", err)
		}
		if err := migrator.Up(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	repository := repo.New(pool)
	sessions := session.NewStore(redisClient, cfg.Session.TTL)

	handler, err := internalhttp.NewRouter(cfg, internalhttp.Dependencies{
		Demands:  service.NewDemandService(repository, errLog),
		Auth:     service.NewAuthService(repository, sessions, errLog),
		Sessions: sessions,
		ErrorLog: errLog,
		Metrics:  internalhttp.NewMetrics(),
		Checks: map[string]internalhttp.Check{
			"postgres": repository.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

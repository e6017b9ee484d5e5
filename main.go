package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/broadcast"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/config"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/httpserver"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/match"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/messages"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/opponent"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/store"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/tiles"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

// run wires the server and blocks until it stops. Deferred cleanup runs
// before main exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	src, closeSrc, err := tileSource(cfg)
	if err != nil {
		return fmt.Errorf("open tile source %q: %w", cfg.TileSource, err)
	}
	defer closeSrc()

	catalog, err := messages.Load()
	if err != nil {
		return fmt.Errorf("load message catalog: %w", err)
	}

	var sinks []broadcast.Sink
	if cfg.NATSURL != "" {
		nc, err := broadcast.ConnectNATS(cfg.NATSURL, log.Logger)
		if err != nil {
			return fmt.Errorf("connect nats %s: %w", cfg.NATSURL, err)
		}
		sink := broadcast.NewNATSSink(nc, cfg.NATSSubjectPrefix)
		defer sink.Close()
		sinks = append(sinks, sink)
	}
	bus := broadcast.NewBus(log.Logger, sinks...)

	mem := store.NewMemoryStore()
	srv := httpserver.New(httpserver.Options{
		Store: mem,
		Bus:   bus,
		Tables: match.Deps{
			Source: src,
			Runner: opponent.Runner{ThinkDelay: cfg.OpponentThinkDelay, StepDelay: cfg.OpponentStepDelay},
		},
		Catalog:      catalog,
		JWTSecret:    cfg.JWTSecret,
		SeatTTL:      cfg.SeatTokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		Logger:       log.Logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("tiles", cfg.TileSource).Msg("starting go-server")
		return srv.Start(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// tileSource builds the configured source and a func releasing it.
func tileSource(cfg *config.Config) (tiles.Source, func(), error) {
	noop := func() {}
	switch cfg.TileSource {
	case config.SourceSQLite:
		bank, err := tiles.OpenBank(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		bank.PerGame = cfg.TilesPerGame
		if cfg.SQLiteSeed {
			sets, err := tiles.EmbeddedSets()
			if err != nil {
				_ = bank.Close()
				return nil, noop, err
			}
			n, err := bank.Seed(context.Background(), sets)
			if err != nil {
				_ = bank.Close()
				return nil, noop, err
			}
			log.Info().Int("inserted", n).Str("path", cfg.SQLitePath).Msg("problem bank seeded")
		}
		return bank, func() { _ = bank.Close() }, nil
	case config.SourceHTTP:
		r := tiles.NewRemote(cfg.GeneratorURL, cfg.GeneratorTimeout)
		r.PerGame = cfg.TilesPerGame
		return r, noop, nil
	case config.SourceEmbedded:
		if _, err := tiles.EmbeddedSets(); err != nil {
			return nil, noop, err
		}
		return tiles.Embedded{PerGame: cfg.TilesPerGame}, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown tile source %q", cfg.TileSource)
}

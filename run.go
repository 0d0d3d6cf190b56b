package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/history"
	"github.com/robalobadob/battleship/internal/httpserver"
	"github.com/robalobadob/battleship/internal/lobby"
	"github.com/robalobadob/battleship/internal/metrics"
	"github.com/robalobadob/battleship/internal/notify"
	"github.com/robalobadob/battleship/internal/player"
	"github.com/robalobadob/battleship/internal/store"
)

// run wires the lobby and serves it until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	hub := notify.NewHub(logger, cfg.Server.ClientOrigin)
	notifiers := notify.Multi{hub}
	deps := httpserver.Deps{Subscriptions: hub}

	if cfg.Metrics.Enabled {
		rec := metrics.NewRecorder()
		notifiers = append(notifiers, rec)
		deps.Metrics = rec
	}

	if cfg.History.Path != "" {
		archive, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Error().Err(err).Msg("closing archive")
			}
		}()
		notifiers = append(notifiers, history.NewRecorder(archive, logger))
		deps.Leaderboard = archive
	}

	registry := player.NewRegistry(player.NewTokens(cfg.Auth.TokenSecret), cfg.Auth.HashCost)
	deps.Lobby = lobby.New(registry, store.NewMemoryStore(cfg.Store.Shards), notifiers, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpserver.New(cfg.Server, deps, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting battleship server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		hub.Close()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

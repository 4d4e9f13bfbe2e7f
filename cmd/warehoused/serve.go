package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"warehouse-ops-backend/internal/ai"
	"warehouse-ops-backend/internal/api"
	"warehouse-ops-backend/internal/notification"
	"warehouse-ops-backend/internal/simulator"
	"warehouse-ops-backend/internal/state"
)

const feedSize = 50

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the fleet simulator",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	feed := notification.NewFeed(feedSize)
	app, s, closeDB, err := loadState(ctx, cfg.Simulator.SeedOnStart, state.WithFeed(feed))
	if err != nil {
		return err
	}
	defer closeDB()

	if !cfg.Push.Enabled() {
		log.Warn().Msg("VAPID keys are not configured, push notifications are disabled")
	}
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	var model ai.Model
	if m, err := ai.NewGenAIModel(ctx, cfg.AI); err == nil {
		model = m
		log.Info().Str("model", cfg.AI.TextModel).Msg("ai gateway configured")
	} else if errors.Is(err, ai.ErrNotConfigured) {
		log.Warn().Msg("no AI API key set, AI endpoints will return 503")
	} else {
		return fmt.Errorf("failed to create ai client: %w", err)
	}
	gateway := ai.NewGateway(model, cfg.AI, log)

	sim := simulator.NewService(cfg, app, s, feed, log)

	handler := api.NewHandler(api.Deps{
		App:     app,
		AI:      gateway,
		Store:   s,
		Feed:    feed,
		Webpush: &webpushOptions,
		Log:     log,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(cfg.Server, handler, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sim.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received, stopping services")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

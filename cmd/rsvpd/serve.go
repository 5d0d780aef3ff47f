package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/payments"
	"github.com/groblegark/rsvpd/internal/reconcile"
	"github.com/groblegark/rsvpd/internal/rsvp"
	"github.com/groblegark/rsvpd/internal/schedule"
	"github.com/groblegark/rsvpd/internal/server"
	"github.com/groblegark/rsvpd/internal/snapshot"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RSVP daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		logger := a.logger

		if a.cfg.StripeWebhookSecret == "" {
			return fmt.Errorf("RSVPD_STRIPE_WEBHOOK_SECRET is required")
		}

		handler := rsvp.NewHandler(rsvp.HandlerOptions{
			Store:     a.store,
			Gateway:   a.discord,
			Checkout:  a.checkout,
			Bus:       a.publisher,
			Templates: a.templates,
			Logger:    logger,
			Currency:  a.cfg.Currency,
			PublicURL: a.cfg.PublicURL,
		})

		// Open the gateway socket and route notifications into the handler.
		err = a.discord.Connect(gateway.Handlers{
			Ready: func() {
				go func() {
					if err := handler.SyncMembers(context.Background()); err != nil {
						logger.Error("member sync failed", "err", err)
					}
				}()
			},
			ReactionAdded: func(r gateway.Reaction) {
				if err := handler.HandleReactionAdd(context.Background(), r); err != nil {
					logger.Error("reaction add failed", "user", r.UserID, "err", err)
				}
			},
			ReactionRemoved: func(r gateway.Reaction) {
				if err := handler.HandleReactionRemove(context.Background(), r); err != nil {
					logger.Error("reaction remove failed", "user", r.UserID, "err", err)
				}
			},
			MemberJoined: func(m gateway.Member) {
				if err := handler.HandleMemberJoin(context.Background(), m); err != nil {
					logger.Error("member join failed", "user", m.UserID, "err", err)
				}
			},
			MemberLeft: func(userID string) {
				if err := handler.HandleMemberLeave(context.Background(), userID); err != nil {
					logger.Error("member leave failed", "user", userID, "err", err)
				}
			},
		})
		if err != nil {
			return err
		}
		defer a.discord.Close()

		// Start the HTTP server (webhook, landing pages, health).
		webhookServer := server.New(server.Options{
			Store:     a.store,
			Gateway:   a.discord,
			Verifier:  payments.NewStripeWebhookVerifier(a.cfg.StripeWebhookSecret),
			Bus:       a.publisher,
			Templates: a.templates,
			Logger:    logger,
		})
		httpServer := &http.Server{
			Addr:    a.cfg.HTTPAddr,
			Handler: webhookServer.NewHTTPHandler(),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", a.cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the periodic jobs.
		var runners []*schedule.Runner
		startRunner := func(job schedule.Job, interval time.Duration) {
			if interval <= 0 {
				logger.Info("job disabled", "job", job.Name())
				return
			}
			r := schedule.NewRunner(job, interval, logger)
			r.Start()
			runners = append(runners, r)
			logger.Info("job started", "job", job.Name(), "interval", interval)
		}

		startRunner(reconcile.New(a.store, a.discord, a.publisher, logger), a.cfg.ReconcileInterval)
		startRunner(schedule.NewDeadlineJob(a.store, a.discord, a.publisher, a.templates, a.location, logger), a.cfg.DeadlineInterval)
		startRunner(schedule.NewPaymentSweepJob(schedule.PaymentSweepOptions{
			Store:     a.store,
			Gateway:   a.discord,
			Checkout:  a.checkout,
			Bus:       a.publisher,
			Templates: a.templates,
			Logger:    logger,
			Currency:  a.cfg.Currency,
			PublicURL: a.cfg.PublicURL,
		}), a.cfg.PaymentSweepInterval)

		if a.cfg.SnapshotInterval > 0 && a.cfg.SnapshotS3Bucket != "" {
			dest, err := snapshot.NewS3Destination(
				context.Background(),
				a.cfg.SnapshotS3Bucket,
				a.cfg.SnapshotS3Key,
				a.cfg.SnapshotS3Region,
				a.cfg.SnapshotS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 snapshot destination", "err", err)
			} else {
				startRunner(snapshot.NewJob(a.store, []snapshot.Destination{dest}, logger), a.cfg.SnapshotInterval)
			}
		}

		logger.Info("rsvpd started", "http_addr", a.cfg.HTTPAddr, "guild", a.cfg.GuildID)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		for _, r := range runners {
			r.Stop()
		}
		logger.Info("jobs stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		logger.Info("shutdown complete")
		return nil
	},
}

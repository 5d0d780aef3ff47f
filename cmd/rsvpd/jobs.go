package main

import (
	"context"

	"github.com/groblegark/rsvpd/internal/reconcile"
	"github.com/groblegark/rsvpd/internal/schedule"
	"github.com/spf13/cobra"
)

// runJob connects the shared dependencies and runs one job to completion.
func runJob(build func(a *app) schedule.Job) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	job := build(a)
	a.logger.Info("running job", "job", job.Name())
	return job.Run(context.Background())
}

func reconcileJob(a *app) schedule.Job {
	return reconcile.New(a.store, a.discord, a.publisher, a.logger)
}

func deadlineJob(a *app) schedule.Job {
	return schedule.NewDeadlineJob(a.store, a.discord, a.publisher, a.templates, a.location, a.logger)
}

func paymentSweepJob(a *app) schedule.Job {
	return schedule.NewPaymentSweepJob(schedule.PaymentSweepOptions{
		Store:     a.store,
		Gateway:   a.discord,
		Checkout:  a.checkout,
		Bus:       a.publisher,
		Templates: a.templates,
		Logger:    a.logger,
		Currency:  a.cfg.Currency,
		PublicURL: a.cfg.PublicURL,
	})
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Backfill RSVP rows from message reactions once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(reconcileJob)
	},
}

var deadlinesCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "Announce passed deadline and reminder thresholds once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(deadlineJob)
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Chase unpaid going RSVPs once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(paymentSweepJob)
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run reconcile, deadlines, and payments once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, job := range []schedule.Job{
			reconcileJob(a),
			deadlineJob(a),
			paymentSweepJob(a),
		} {
			a.logger.Info("running job", "job", job.Name())
			if err := job.Run(context.Background()); err != nil {
				return err
			}
		}
		return nil
	},
}

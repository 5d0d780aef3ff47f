package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/groblegark/rsvpd/internal/ui"
	"github.com/spf13/cobra"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "rsvpd <command>",
	Short: "Discord RSVP and payment service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(deadlinesCmd)
	rootCmd.AddCommand(paymentsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

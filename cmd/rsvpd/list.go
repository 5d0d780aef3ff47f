package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/ui"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		evts, err := a.store.ListEvents(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(evts)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tGOING\tCAPACITY\tDEADLINE\tBOUND")
		for _, e := range evts {
			going, err := a.store.CountGoing(ctx, e.ID)
			if err != nil {
				return err
			}
			capacity := "-"
			if e.Limited() {
				capacity = strconv.FormatInt(e.MaxCapacity, 10)
			}
			deadline := "-"
			if e.DeadlineAt != nil {
				deadline = e.DeadlineAt.Format("2006-01-02 15:04")
			}
			bound := "no"
			if e.Bound() {
				bound = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
				e.ID, ui.RenderAccent(e.Name), e.Price, going, capacity, deadline, bound)
		}
		return w.Flush()
	},
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance <event-id>",
	Short: "List attendees for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		attendees, err := a.store.ListAttendees(ctx, eventID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(attendees)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tDISPLAY NAME\tSTATUS\tRSVP AT")
		for _, at := range attendees {
			name := at.DisplayName
			if name == "" {
				name = ui.RenderMuted("-")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				at.Username, name,
				ui.RenderRSVPStatus(string(at.Status)),
				at.RSVPAt.Format("2006-01-02 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		going := 0
		for _, at := range attendees {
			if at.Status == model.RSVPGoing {
				going++
			}
		}
		fmt.Printf("\n%d attendees, %d going\n", len(attendees), going)
		return nil
	},
}

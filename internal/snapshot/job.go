package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
)

// Job exports the dataset and uploads it to every destination. It plugs into
// the periodic job runner.
type Job struct {
	store        Store
	destinations []Destination
	logger       *slog.Logger
}

func NewJob(s Store, destinations []Destination, logger *slog.Logger) *Job {
	return &Job{store: s, destinations: destinations, logger: logger}
}

func (j *Job) Name() string { return "snapshot" }

func (j *Job) Run(ctx context.Context) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, j.store, &buf); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	data := buf.Bytes()

	for i, dest := range j.destinations {
		if err := dest.Write(ctx, data); err != nil {
			j.logger.Error("snapshot destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}
	j.logger.Info("snapshot exported", "destinations", len(j.destinations), "bytes", len(data))
	return nil
}

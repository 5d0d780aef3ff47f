package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL         string // RSVPD_DATABASE_URL (required)
	DiscordToken        string // RSVPD_DISCORD_TOKEN (required)
	GuildID             string // RSVPD_GUILD_ID (required)
	StripeKey           string // RSVPD_STRIPE_KEY (required)
	StripeWebhookSecret string // RSVPD_STRIPE_WEBHOOK_SECRET (required by serve)
	PublicURL           string // RSVPD_PUBLIC_URL (required; checkout redirect base)

	HTTPAddr      string // RSVPD_HTTP_ADDR (default ":8080")
	NATSURL       string // RSVPD_NATS_URL (optional, empty = no events)
	Currency      string // RSVPD_CURRENCY (default "jpy")
	Timezone      string // RSVPD_TIMEZONE (default "Asia/Tokyo")
	TemplatesPath string // RSVPD_TEMPLATES (optional templates.toml path)

	// Periodic job settings; 0 disables the job.
	ReconcileInterval    time.Duration // RSVPD_RECONCILE_INTERVAL (default 10m)
	DeadlineInterval     time.Duration // RSVPD_DEADLINE_INTERVAL (default 1m)
	PaymentSweepInterval time.Duration // RSVPD_PAYMENT_SWEEP_INTERVAL (default 30m)

	// Snapshot settings
	SnapshotInterval   time.Duration // RSVPD_SNAPSHOT_INTERVAL (default 0 = disabled)
	SnapshotS3Bucket   string        // RSVPD_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // RSVPD_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // RSVPD_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // RSVPD_SNAPSHOT_S3_KEY (default "rsvpd/snapshot.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:         os.Getenv("RSVPD_DATABASE_URL"),
		DiscordToken:        os.Getenv("RSVPD_DISCORD_TOKEN"),
		GuildID:             os.Getenv("RSVPD_GUILD_ID"),
		StripeKey:           os.Getenv("RSVPD_STRIPE_KEY"),
		StripeWebhookSecret: os.Getenv("RSVPD_STRIPE_WEBHOOK_SECRET"),
		PublicURL:           os.Getenv("RSVPD_PUBLIC_URL"),
		HTTPAddr:            envOrDefault("RSVPD_HTTP_ADDR", ":8080"),
		NATSURL:             os.Getenv("RSVPD_NATS_URL"),
		Currency:            envOrDefault("RSVPD_CURRENCY", "jpy"),
		Timezone:            envOrDefault("RSVPD_TIMEZONE", "Asia/Tokyo"),
		TemplatesPath:       os.Getenv("RSVPD_TEMPLATES"),
		SnapshotS3Bucket:    os.Getenv("RSVPD_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint:  os.Getenv("RSVPD_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:    envOrDefault("RSVPD_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:       envOrDefault("RSVPD_SNAPSHOT_S3_KEY", "rsvpd/snapshot.jsonl"),
	}

	for _, req := range []struct{ key, val string }{
		{"RSVPD_DATABASE_URL", c.DatabaseURL},
		{"RSVPD_DISCORD_TOKEN", c.DiscordToken},
		{"RSVPD_GUILD_ID", c.GuildID},
		{"RSVPD_STRIPE_KEY", c.StripeKey},
		{"RSVPD_PUBLIC_URL", c.PublicURL},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("%s is required", req.key)
		}
	}

	var err error
	if c.ReconcileInterval, err = durationEnv("RSVPD_RECONCILE_INTERVAL", "10m"); err != nil {
		return nil, err
	}
	if c.DeadlineInterval, err = durationEnv("RSVPD_DEADLINE_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if c.PaymentSweepInterval, err = durationEnv("RSVPD_PAYMENT_SWEEP_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if c.SnapshotInterval, err = durationEnv("RSVPD_SNAPSHOT_INTERVAL", "0"); err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key, fallback string) (time.Duration, error) {
	v := envOrDefault(key, fallback)
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

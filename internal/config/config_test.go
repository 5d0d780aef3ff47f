package config

import (
	"strings"
	"testing"
	"time"
)

// allEnvVars lists every config env var so tests start from a clean slate.
var allEnvVars = []string{
	"RSVPD_DATABASE_URL", "RSVPD_DISCORD_TOKEN", "RSVPD_GUILD_ID",
	"RSVPD_STRIPE_KEY", "RSVPD_STRIPE_WEBHOOK_SECRET", "RSVPD_PUBLIC_URL",
	"RSVPD_HTTP_ADDR", "RSVPD_NATS_URL", "RSVPD_CURRENCY", "RSVPD_TIMEZONE",
	"RSVPD_TEMPLATES", "RSVPD_RECONCILE_INTERVAL", "RSVPD_DEADLINE_INTERVAL",
	"RSVPD_PAYMENT_SWEEP_INTERVAL", "RSVPD_SNAPSHOT_INTERVAL",
	"RSVPD_SNAPSHOT_S3_BUCKET", "RSVPD_SNAPSHOT_S3_ENDPOINT",
	"RSVPD_SNAPSHOT_S3_REGION", "RSVPD_SNAPSHOT_S3_KEY",
}

// requiredEnv is a minimal passing environment.
var requiredEnv = map[string]string{
	"RSVPD_DATABASE_URL":  "postgres://localhost/rsvpd",
	"RSVPD_DISCORD_TOKEN": "bot-token",
	"RSVPD_GUILD_ID":      "guild-1",
	"RSVPD_STRIPE_KEY":    "sk_test_123",
	"RSVPD_PUBLIC_URL":    "https://rsvpd.example.com",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, missing := range []string{
		"RSVPD_DATABASE_URL", "RSVPD_DISCORD_TOKEN", "RSVPD_GUILD_ID",
		"RSVPD_STRIPE_KEY", "RSVPD_PUBLIC_URL",
	} {
		t.Run(missing, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range requiredEnv {
				if k != missing {
					t.Setenv(k, v)
				}
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded without", missing)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Errorf("error %q does not name %s", err, missing)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.Currency != "jpy" {
		t.Errorf("Currency = %q, want %q", cfg.Currency, "jpy")
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Asia/Tokyo")
	}
	if cfg.ReconcileInterval != 10*time.Minute {
		t.Errorf("ReconcileInterval = %v, want 10m", cfg.ReconcileInterval)
	}
	if cfg.DeadlineInterval != time.Minute {
		t.Errorf("DeadlineInterval = %v, want 1m", cfg.DeadlineInterval)
	}
	if cfg.SnapshotInterval != 0 {
		t.Errorf("SnapshotInterval = %v, want 0 (disabled)", cfg.SnapshotInterval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearAllEnv(t)
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
	t.Setenv("RSVPD_HTTP_ADDR", ":3000")
	t.Setenv("RSVPD_NATS_URL", "nats://localhost:4222")
	t.Setenv("RSVPD_CURRENCY", "usd")
	t.Setenv("RSVPD_RECONCILE_INTERVAL", "5m")
	t.Setenv("RSVPD_SNAPSHOT_INTERVAL", "1h")
	t.Setenv("RSVPD_SNAPSHOT_S3_BUCKET", "rsvpd-backups")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":3000")
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.Currency != "usd" {
		t.Errorf("Currency = %q, want %q", cfg.Currency, "usd")
	}
	if cfg.ReconcileInterval != 5*time.Minute {
		t.Errorf("ReconcileInterval = %v, want 5m", cfg.ReconcileInterval)
	}
	if cfg.SnapshotInterval != time.Hour {
		t.Errorf("SnapshotInterval = %v, want 1h", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Bucket != "rsvpd-backups" {
		t.Errorf("SnapshotS3Bucket = %q", cfg.SnapshotS3Bucket)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	clearAllEnv(t)
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
	t.Setenv("RSVPD_DEADLINE_INTERVAL", "often")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unparseable interval")
	}
}

// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id)
}

func (s *PostgresStore) GetEventByMessageID(ctx context.Context, messageID string) (*model.Event, error) {
	return queryGetEventByMessageID(ctx, s.db, messageID)
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db)
}

func (s *PostgresStore) ListBoundEvents(ctx context.Context) ([]*model.Event, error) {
	return queryListBoundEvents(ctx, s.db)
}

func (s *PostgresStore) ListPaidEvents(ctx context.Context) ([]*model.Event, error) {
	return queryListPaidEvents(ctx, s.db)
}

func (s *PostgresStore) ListDueEvents(ctx context.Context, now time.Time) ([]*model.Event, error) {
	return queryListDueEvents(ctx, s.db, now)
}

func (s *PostgresStore) SetCapacityNotice(ctx context.Context, eventID int64, sent bool) error {
	return querySetCapacityNotice(ctx, s.db, eventID, sent)
}

func (s *PostgresStore) MarkThresholdSent(ctx context.Context, eventID int64, threshold model.Threshold) error {
	return queryMarkThresholdSent(ctx, s.db, eventID, threshold)
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u *model.User) (*model.User, error) {
	return queryUpsertUser(ctx, s.db, u)
}

func (s *PostgresStore) GetUserByDiscordID(ctx context.Context, discordUserID string) (*model.User, error) {
	return queryGetUserByDiscordID(ctx, s.db, discordUserID)
}

func (s *PostgresStore) MarkUserLeft(ctx context.Context, discordUserID string) error {
	return queryMarkUserLeft(ctx, s.db, discordUserID)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.db)
}

func (s *PostgresStore) ListUserDiscordIDs(ctx context.Context) ([]string, error) {
	return queryListUserDiscordIDs(ctx, s.db)
}

func (s *PostgresStore) UpsertRSVPGoing(ctx context.Context, userID, eventID int64, source model.RSVPSource) error {
	return queryUpsertRSVPGoing(ctx, s.db, userID, eventID, source)
}

func (s *PostgresStore) CancelRSVP(ctx context.Context, userID, eventID int64) error {
	return queryCancelRSVP(ctx, s.db, userID, eventID)
}

func (s *PostgresStore) CountGoing(ctx context.Context, eventID int64) (int, error) {
	return queryCountGoing(ctx, s.db, eventID)
}

func (s *PostgresStore) ListGoingDiscordIDs(ctx context.Context, eventID int64) ([]string, error) {
	return queryListGoingDiscordIDs(ctx, s.db, eventID)
}

func (s *PostgresStore) ListAttendees(ctx context.Context, eventID int64) ([]*model.Attendee, error) {
	return queryListAttendees(ctx, s.db, eventID)
}

func (s *PostgresStore) ListRSVPs(ctx context.Context) ([]*model.RSVP, error) {
	return queryListRSVPs(ctx, s.db)
}

func (s *PostgresStore) GetPayment(ctx context.Context, userID, eventID int64) (*model.Payment, error) {
	return queryGetPayment(ctx, s.db, userID, eventID)
}

func (s *PostgresStore) UpsertPaymentSession(ctx context.Context, p *model.Payment) error {
	return queryUpsertPaymentSession(ctx, s.db, p)
}

func (s *PostgresStore) CancelPayment(ctx context.Context, userID, eventID int64) error {
	return queryCancelPayment(ctx, s.db, userID, eventID)
}

func (s *PostgresStore) MarkPaymentPaid(ctx context.Context, userID, eventID int64, sessionID string, amount int64) (bool, error) {
	return queryMarkPaymentPaid(ctx, s.db, userID, eventID, sessionID, amount)
}

func (s *PostgresStore) ListGoingUnpaid(ctx context.Context, eventID int64) ([]*model.User, error) {
	return queryListGoingUnpaid(ctx, s.db, eventID)
}

func (s *PostgresStore) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	return queryListPayments(ctx, s.db)
}

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	return queryGetSetting(ctx, s.db, key)
}

func (s *PostgresStore) SetSetting(ctx context.Context, setting *model.Setting) error {
	return querySetSetting(ctx, s.db, setting)
}

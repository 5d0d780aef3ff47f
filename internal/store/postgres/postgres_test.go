package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// eventRowColumns is the column list for scanEvent results.
var eventRowColumns = []string{
	"id", "name", "price", "max_capacity", "reaction_emoji",
	"discord_thread_id", "discord_message_id", "deadline_at", "remind1_at", "remind2_at",
	"deadline_notice_sent", "remind1_sent", "remind2_sent", "capacity_notice_sent",
	"created_at", "updated_at",
}

// userRowColumns is the column list for scanUser results.
var userRowColumns = []string{
	"id", "discord_user_id", "username", "display_name", "role", "created_at", "updated_at",
}

// addEventRow adds a minimal bound event row to a sqlmock.Rows.
func addEventRow(rows *sqlmock.Rows, id int64, name string, price, capacity int64, noticeSent bool, now time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, name, price, capacity, "👍",
		"thread-1", "msg-1", nil, nil, nil,
		false, false, false, noticeSent,
		now, now,
	)
}

func TestGetEventByMessageID(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := addEventRow(sqlmock.NewRows(eventRowColumns), 7, "Hanami", 1500, 5, false, now)
	mock.ExpectQuery(`FROM events WHERE discord_message_id = \$1`).
		WithArgs("msg-1").
		WillReturnRows(rows)

	e, err := queryGetEventByMessageID(context.Background(), db, "msg-1")
	if err != nil {
		t.Fatalf("queryGetEventByMessageID error: %v", err)
	}
	if e.ID != 7 || e.Name != "Hanami" || e.Price != 1500 || e.MaxCapacity != 5 {
		t.Errorf("unexpected event: %+v", e)
	}
	if !e.Bound() {
		t.Error("event should be bound")
	}
}

func TestGetEventByMessageID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM events WHERE discord_message_id = \$1`).
		WithArgs("unbound").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := queryGetEventByMessageID(context.Background(), db, "unbound")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}

func TestUpsertUser_ReturnsRow(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(3, "discord-42", "alice", "Alice", nil, now, now)
	mock.ExpectQuery(`(?s)INSERT INTO users .+ ON CONFLICT \(discord_user_id\)`).
		WithArgs("discord-42", "alice", "Alice").
		WillReturnRows(rows)

	u, err := queryUpsertUser(context.Background(), db, &model.User{
		DiscordUserID: "discord-42",
		Username:      "alice",
		DisplayName:   "Alice",
	})
	if err != nil {
		t.Fatalf("queryUpsertUser error: %v", err)
	}
	if u.ID != 3 || u.DiscordUserID != "discord-42" {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.Departed() {
		t.Error("upserted user should not be departed")
	}
}

func TestUpsertRSVPGoing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`(?s)INSERT INTO rsvps .+ ON CONFLICT \(user_id, event_id\)`).
		WithArgs(int64(3), int64(7), "reaction").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := queryUpsertRSVPGoing(context.Background(), db, 3, 7, model.SourceReaction)
	if err != nil {
		t.Fatalf("queryUpsertRSVPGoing error: %v", err)
	}
}

func TestCancelRSVPAndPayment(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE rsvps SET status = 'cancelled'`).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payments SET status = 'cancelled'`).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryCancelRSVP(context.Background(), db, 3, 7); err != nil {
		t.Fatalf("queryCancelRSVP error: %v", err)
	}
	if err := queryCancelPayment(context.Background(), db, 3, 7); err != nil {
		t.Fatalf("queryCancelPayment error: %v", err)
	}
}

func TestMarkPaymentPaid_Transition(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(int64(3), int64(7), int64(1500), "cs_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	transitioned, err := queryMarkPaymentPaid(context.Background(), db, 3, 7, "cs_1", 1500)
	if err != nil {
		t.Fatalf("queryMarkPaymentPaid error: %v", err)
	}
	if !transitioned {
		t.Error("first mark-paid should report a transition")
	}
}

func TestMarkPaymentPaid_InsertsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)

	// No dm_sent row on record: the upsert inserts a paid one.
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(int64(3), int64(7), int64(1500), "cs_1").
		WillReturnResult(sqlmock.NewResult(42, 1))

	transitioned, err := queryMarkPaymentPaid(context.Background(), db, 3, 7, "cs_1", 1500)
	if err != nil {
		t.Fatalf("queryMarkPaymentPaid error: %v", err)
	}
	if !transitioned {
		t.Error("inserting the paid row should report a transition")
	}
}

func TestMarkPaymentPaid_Replay(t *testing.T) {
	db, mock := newMockDB(t)

	// Row already paid: the status <> 'paid' guard matches nothing.
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(int64(3), int64(7), int64(1500), "cs_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	transitioned, err := queryMarkPaymentPaid(context.Background(), db, 3, 7, "cs_1", 1500)
	if err != nil {
		t.Fatalf("queryMarkPaymentPaid error: %v", err)
	}
	if transitioned {
		t.Error("replayed mark-paid should not report a transition")
	}
}

func TestCountGoing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rsvps WHERE event_id = \$1 AND status = 'going'`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := queryCountGoing(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("queryCountGoing error: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func TestListDueEvents(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)

	rows := sqlmock.NewRows(eventRowColumns).AddRow(
		1, "Hanami", 0, nil, "👍",
		"thread-1", "msg-1", deadline, nil, nil,
		false, false, false, false,
		now, now,
	)
	mock.ExpectQuery(`WHERE \(deadline_at IS NOT NULL AND deadline_at < \$1 AND NOT deadline_notice_sent\)`).
		WithArgs(now).
		WillReturnRows(rows)

	events, err := queryListDueEvents(context.Background(), db, now)
	if err != nil {
		t.Fatalf("queryListDueEvents error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].DeadlineAt == nil || !events[0].DeadlineAt.Equal(deadline) {
		t.Errorf("DeadlineAt = %v, want %v", events[0].DeadlineAt, deadline)
	}
}

func TestMarkThresholdSent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE events SET remind1_sent = TRUE`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryMarkThresholdSent(context.Background(), db, 1, model.ThresholdRemind1); err != nil {
		t.Fatalf("queryMarkThresholdSent error: %v", err)
	}

	if err := queryMarkThresholdSent(context.Background(), db, 1, model.Threshold("bogus")); err == nil {
		t.Error("unknown threshold should be rejected")
	}
}

func TestListGoingUnpaid(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(3, "discord-42", "alice", nil, nil, now, now).
		AddRow(4, "discord-43", "bob", "Bob", nil, now, now)
	mock.ExpectQuery(`LEFT JOIN payments p ON p\.user_id = r\.user_id AND p\.event_id = r\.event_id`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	users, err := queryListGoingUnpaid(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("queryListGoingUnpaid error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	if users[1].DisplayName != "Bob" {
		t.Errorf("users[1].DisplayName = %q, want %q", users[1].DisplayName, "Bob")
	}
}

func TestGetSetting_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT key, value, description, updated_at FROM app_settings WHERE key = \$1`).
		WithArgs(model.SettingZeroFeeTest).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "description", "updated_at"}))

	_, err := queryGetSetting(context.Background(), db, model.SettingZeroFeeTest)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}

func TestScanHelpers(t *testing.T) {
	if timePtr(sql.NullTime{}) != nil {
		t.Error("timePtr(invalid) should be nil")
	}
	now := time.Now()
	if p := timePtr(sql.NullTime{Time: now, Valid: true}); p == nil || !p.Equal(now) {
		t.Errorf("timePtr(now) = %v", p)
	}

	if nullString("").Valid {
		t.Error("nullString(\"\") should be invalid")
	}
	if ns := nullString("hello"); !ns.Valid || ns.String != "hello" {
		t.Errorf("nullString(\"hello\") = %v", ns)
	}
}

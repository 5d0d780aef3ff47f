package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/store"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, name, price, max_capacity, reaction_emoji,
	discord_thread_id, discord_message_id, deadline_at, remind1_at, remind2_at,
	deadline_notice_sent, remind1_sent, remind2_sent, capacity_notice_sent,
	created_at, updated_at`

// userColumns is the column list used for SELECT statements on the users table.
const userColumns = `id, discord_user_id, username, display_name, role, created_at, updated_at`

// paymentColumns is the column list used for SELECT statements on the payments table.
const paymentColumns = `id, user_id, event_id, status, amount, session_url, session_id,
	dm_sent_at, paid_at, cancelled_at, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGetEvent(ctx context.Context, db executor, id int64) (*model.Event, error) {
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return e, err
}

func queryGetEventByMessageID(ctx context.Context, db executor, messageID string) (*model.Event, error) {
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE discord_message_id = $1`, messageID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return e, err
}

func queryListEvents(ctx context.Context, db executor) ([]*model.Event, error) {
	return queryEvents(ctx, db, `SELECT `+eventColumns+` FROM events ORDER BY id`)
}

func queryListBoundEvents(ctx context.Context, db executor) ([]*model.Event, error) {
	return queryEvents(ctx, db, `SELECT `+eventColumns+` FROM events
		WHERE discord_message_id IS NOT NULL AND reaction_emoji IS NOT NULL
		ORDER BY id`)
}

func queryListPaidEvents(ctx context.Context, db executor) ([]*model.Event, error) {
	return queryEvents(ctx, db, `SELECT `+eventColumns+` FROM events WHERE price > 0 ORDER BY id`)
}

func queryListDueEvents(ctx context.Context, db executor, now time.Time) ([]*model.Event, error) {
	return queryEvents(ctx, db, `SELECT `+eventColumns+` FROM events
		WHERE (deadline_at IS NOT NULL AND deadline_at < $1 AND NOT deadline_notice_sent)
		   OR (remind1_at IS NOT NULL AND remind1_at < $1 AND NOT remind1_sent)
		   OR (remind2_at IS NOT NULL AND remind2_at < $1 AND NOT remind2_sent)
		ORDER BY id`, now)
}

func queryEvents(ctx context.Context, db executor, q string, args ...any) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func querySetCapacityNotice(ctx context.Context, db executor, eventID int64, sent bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE events SET capacity_notice_sent = $2, updated_at = NOW() WHERE id = $1`,
		eventID, sent)
	return err
}

// thresholdColumn maps a threshold to its sent-flag column. The switch keeps
// column names out of caller-supplied input.
func thresholdColumn(t model.Threshold) (string, error) {
	switch t {
	case model.ThresholdDeadline:
		return "deadline_notice_sent", nil
	case model.ThresholdRemind1:
		return "remind1_sent", nil
	case model.ThresholdRemind2:
		return "remind2_sent", nil
	}
	return "", fmt.Errorf("unknown threshold %q", t)
}

func queryMarkThresholdSent(ctx context.Context, db executor, eventID int64, t model.Threshold) error {
	col, err := thresholdColumn(t)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE events SET `+col+` = TRUE, updated_at = NOW() WHERE id = $1`, eventID)
	return err
}

func queryUpsertUser(ctx context.Context, db executor, u *model.User) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO users (discord_user_id, username, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (discord_user_id)
		DO UPDATE SET
			username = $2,
			display_name = $3,
			role = CASE WHEN users.role = 'Left' THEN NULL ELSE users.role END,
			updated_at = NOW()
		RETURNING `+userColumns,
		u.DiscordUserID, u.Username, nullString(u.DisplayName))
	return scanUser(row)
}

func queryGetUserByDiscordID(ctx context.Context, db executor, discordUserID string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE discord_user_id = $1`, discordUserID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return u, err
}

func queryMarkUserLeft(ctx context.Context, db executor, discordUserID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET role = 'Left', updated_at = NOW() WHERE discord_user_id = $1`,
		discordUserID)
	return err
}

func queryListUsers(ctx context.Context, db executor) ([]*model.User, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func queryListUserDiscordIDs(ctx context.Context, db executor) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT discord_user_id FROM users
		WHERE role IS DISTINCT FROM 'Left'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func queryUpsertRSVPGoing(ctx context.Context, db executor, userID, eventID int64, source model.RSVPSource) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO rsvps (user_id, event_id, status, source, rsvp_at, created_at, updated_at)
		VALUES ($1, $2, 'going', $3, NOW(), NOW(), NOW())
		ON CONFLICT (user_id, event_id)
		DO UPDATE SET
			status = 'going',
			source = $3,
			rsvp_at = NOW(),
			cancelled_at = NULL,
			updated_at = NOW()`,
		userID, eventID, string(source))
	return err
}

func queryCancelRSVP(ctx context.Context, db executor, userID, eventID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE rsvps SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	return err
}

func queryCountGoing(ctx context.Context, db executor, eventID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status = 'going'`,
		eventID).Scan(&count)
	return count, err
}

func queryListGoingDiscordIDs(ctx context.Context, db executor, eventID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.discord_user_id FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.event_id = $1 AND r.status = 'going'`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func queryListAttendees(ctx context.Context, db executor, eventID int64) ([]*model.Attendee, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.username, u.display_name, r.status, r.rsvp_at FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.event_id = $1
		ORDER BY r.rsvp_at`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []*model.Attendee
	for rows.Next() {
		var a model.Attendee
		var displayName sql.NullString
		if err := rows.Scan(&a.Username, &displayName, &a.Status, &a.RSVPAt); err != nil {
			return nil, err
		}
		a.DisplayName = displayName.String
		attendees = append(attendees, &a)
	}
	return attendees, rows.Err()
}

func queryListRSVPs(ctx context.Context, db executor) ([]*model.RSVP, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, event_id, status, source, rsvp_at, cancelled_at, created_at, updated_at
		FROM rsvps ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []*model.RSVP
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}

func queryGetPayment(ctx context.Context, db executor, userID, eventID int64) (*model.Payment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return p, err
}

func queryUpsertPaymentSession(ctx context.Context, db executor, p *model.Payment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO payments (user_id, event_id, status, amount, session_url, session_id, dm_sent_at, created_at, updated_at)
		VALUES ($1, $2, 'dm_sent', $3, $4, $5, NOW(), NOW(), NOW())
		ON CONFLICT (user_id, event_id)
		DO UPDATE SET
			status = 'dm_sent',
			amount = $3,
			session_url = $4,
			session_id = $5,
			dm_sent_at = NOW(),
			updated_at = NOW()`,
		p.UserID, p.EventID, p.Amount, nullString(p.SessionURL), nullString(p.SessionID))
	return err
}

func queryCancelPayment(ctx context.Context, db executor, userID, eventID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE payments SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	return err
}

func queryMarkPaymentPaid(ctx context.Context, db executor, userID, eventID int64, sessionID string, amount int64) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO payments (user_id, event_id, status, amount, session_id, paid_at, created_at, updated_at)
		VALUES ($1, $2, 'paid', $3, $4, NOW(), NOW(), NOW())
		ON CONFLICT (user_id, event_id)
		DO UPDATE SET status = 'paid', paid_at = NOW(), updated_at = NOW()
		WHERE payments.status <> 'paid'`,
		userID, eventID, amount, nullString(sessionID))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func queryListGoingUnpaid(ctx context.Context, db executor, eventID int64) ([]*model.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.id, u.discord_user_id, u.username, u.display_name, u.role, u.created_at, u.updated_at
		FROM rsvps r
		JOIN users u ON r.user_id = u.id
		LEFT JOIN payments p ON p.user_id = r.user_id AND p.event_id = r.event_id
		WHERE r.event_id = $1 AND r.status = 'going'
		  AND (p.status IS NULL OR p.status NOT IN ('dm_sent', 'paid'))`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func queryListPayments(ctx context.Context, db executor) ([]*model.Payment, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func queryGetSetting(ctx context.Context, db executor, key string) (*model.Setting, error) {
	var s model.Setting
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT key, value, description, updated_at FROM app_settings WHERE key = $1`,
		key).Scan(&s.Key, &s.Value, &description, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Description = description.String
	return &s, nil
}

func querySetSetting(ctx context.Context, db executor, s *model.Setting) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, description, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = $2, description = $3, updated_at = NOW()`,
		s.Key, s.Value, nullString(s.Description))
	return err
}

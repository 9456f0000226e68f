package postgres

import (
	"database/sql"
	"time"

	"coffeebot/internal/domain"
)

// MeetingRepo implements repository.MeetingRepository
type MeetingRepo struct {
	db *sql.DB
}

// NewMeetingRepo creates a new meeting repository
func NewMeetingRepo(db *sql.DB) *MeetingRepo {
	return &MeetingRepo{db: db}
}

const meetingColumns = `id, user1_id, user2_id, scheduled_date, is_confirmed, is_completed,
		is_cancelled, reminder_sent, feedback_requested, created_at, updated_at`

// Create inserts a new meeting in a single statement, so a crash
// mid-round leaves previously created meetings valid
func (r *MeetingRepo) Create(meeting *domain.Meeting) error {
	query := `
		INSERT INTO meetings (user1_id, user2_id, scheduled_date, is_confirmed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at, updated_at
	`
	var scheduled sql.NullTime
	if meeting.ScheduledDate != nil {
		scheduled = sql.NullTime{Time: *meeting.ScheduledDate, Valid: true}
	}
	return r.db.QueryRow(query, meeting.User1ID, meeting.User2ID, scheduled).
		Scan(&meeting.ID, &meeting.CreatedAt, &meeting.UpdatedAt)
}

// GetByID returns a meeting by id, nil if not found
func (r *MeetingRepo) GetByID(id int64) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	meeting, err := scanMeeting(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// Delete removes a meeting row. Used only when dissolving the last pair
// of a round into a trio.
func (r *MeetingRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM meetings WHERE id = $1`, id)
	return err
}

// ListByUser returns all meetings involving the user, newest first
func (r *MeetingRepo) ListByUser(userID int64) ([]domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC`
	return r.queryMeetings(query, userID)
}

// RecentPartnerIDs returns partner ids from the user's most recent
// meetings, limited by the recency window
func (r *MeetingRepo) RecentPartnerIDs(userID int64, limit int) ([]int64, error) {
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM meetings
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListDueReminder returns open meetings scheduled inside (from, to]
// that have not been reminded yet
func (r *MeetingRepo) ListDueReminder(from, to time.Time) ([]domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE scheduled_date > $1 AND scheduled_date <= $2
			AND reminder_sent = FALSE
			AND is_completed = FALSE
			AND is_cancelled = FALSE`
	return r.queryMeetings(query, from, to)
}

// ListDueFeedback returns past open meetings that have not had feedback
// requested yet
func (r *MeetingRepo) ListDueFeedback(before time.Time) ([]domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE scheduled_date IS NOT NULL AND scheduled_date < $1
			AND feedback_requested = FALSE
			AND is_cancelled = FALSE`
	return r.queryMeetings(query, before)
}

// MarkReminderSent flips the reminder flag so later sweeps skip the row
func (r *MeetingRepo) MarkReminderSent(id int64) error {
	query := `UPDATE meetings SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// MarkFeedbackRequested moves the meeting to its terminal state:
// feedback requested and completed in one write
func (r *MeetingRepo) MarkFeedbackRequested(id int64) error {
	query := `
		UPDATE meetings
		SET feedback_requested = TRUE, is_completed = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(query, id)
	return err
}

// SetScheduledDate sets when the meeting takes place
func (r *MeetingRepo) SetScheduledDate(id int64, at time.Time) error {
	query := `UPDATE meetings SET scheduled_date = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id, at)
	return err
}

// Confirm marks the meeting as confirmed by the participants
func (r *MeetingRepo) Confirm(id int64) error {
	query := `UPDATE meetings SET is_confirmed = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// Cancel puts the meeting into the absorbing cancelled state
func (r *MeetingRepo) Cancel(id int64) error {
	query := `UPDATE meetings SET is_cancelled = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// CountAll returns the total number of meetings
func (r *MeetingRepo) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM meetings`).Scan(&count)
	return count, err
}

func (r *MeetingRepo) queryMeetings(query string, args ...interface{}) ([]domain.Meeting, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []domain.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *meeting)
	}
	return meetings, rows.Err()
}

func scanMeeting(row scanner) (*domain.Meeting, error) {
	var m domain.Meeting
	var scheduled sql.NullTime

	err := row.Scan(
		&m.ID, &m.User1ID, &m.User2ID, &scheduled, &m.IsConfirmed, &m.IsCompleted,
		&m.IsCancelled, &m.ReminderSent, &m.FeedbackRequested, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduled.Valid {
		m.ScheduledDate = &scheduled.Time
	}
	return &m, nil
}

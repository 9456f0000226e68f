package postgres

import (
	"database/sql"

	"coffeebot/internal/domain"
)

// FeedbackRepo implements repository.FeedbackRepository
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo creates a new feedback repository
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Create inserts a feedback record
func (r *FeedbackRepo) Create(feedback *domain.Feedback) error {
	query := `
		INSERT INTO feedbacks (meeting_id, from_user_id, to_user_id, rating, comment, improvement_suggestion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(query,
		feedback.MeetingID, feedback.FromUserID, feedback.ToUserID,
		feedback.Rating, nullString(feedback.Comment), nullString(feedback.ImprovementSuggestion),
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

// Exists reports whether feedback was already given for the meeting in
// this direction
func (r *FeedbackRepo) Exists(meetingID, fromUserID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM feedbacks WHERE meeting_id = $1 AND from_user_id = $2)`
	err := r.db.QueryRow(query, meetingID, fromUserID).Scan(&exists)
	return exists, err
}

// AverageRatingFor returns the average rating received by a user,
// 0 when the user has no ratings
func (r *FeedbackRepo) AverageRatingFor(userID int64) (float64, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(rating) FROM feedbacks WHERE to_user_id = $1 AND rating IS NOT NULL`
	if err := r.db.QueryRow(query, userID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// AverageRating returns the average rating across all feedback
func (r *FeedbackRepo) AverageRating() (float64, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(rating) FROM feedbacks WHERE rating IS NOT NULL`
	if err := r.db.QueryRow(query).Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// CountAll returns the total number of feedback records
func (r *FeedbackRepo) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM feedbacks`).Scan(&count)
	return count, err
}

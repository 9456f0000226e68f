package postgres

import (
	"database/sql"
	"fmt"

	"coffeebot/internal/domain"
)

// InterestRepo implements repository.InterestRepository
type InterestRepo struct {
	db *sql.DB
}

// NewInterestRepo creates a new interest repository
func NewInterestRepo(db *sql.DB) *InterestRepo {
	return &InterestRepo{db: db}
}

// ListAll returns the interest reference data
func (r *InterestRepo) ListAll() ([]domain.Interest, error) {
	query := `SELECT id, name, emoji FROM interests ORDER BY id`
	return r.queryInterests(query)
}

// GetForUser returns the user's selected interests
func (r *InterestRepo) GetForUser(userID int64) ([]domain.Interest, error) {
	query := `
		SELECT i.id, i.name, i.emoji
		FROM interests i
		JOIN user_interests ui ON ui.interest_id = i.id
		WHERE ui.user_id = $1
		ORDER BY i.id
	`
	return r.queryInterests(query, userID)
}

// ReplaceForUser swaps the user's interest set in one transaction
func (r *InterestRepo) ReplaceForUser(userID int64, interestIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_interests WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, interestID := range interestIDs {
		_, err := tx.Exec(
			`INSERT INTO user_interests (user_id, interest_id) VALUES ($1, $2)`,
			userID, interestID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *InterestRepo) queryInterests(query string, args ...interface{}) ([]domain.Interest, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []domain.Interest
	for rows.Next() {
		var i domain.Interest
		if err := rows.Scan(&i.ID, &i.Name, &i.Emoji); err != nil {
			return nil, err
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

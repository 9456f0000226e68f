package postgres

import (
	"database/sql"

	"coffeebot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `telegram_id, username, full_name, department, role, meeting_format,
		available_days, available_time_slot, user_number, is_active, registration_complete,
		created_at, updated_at`

// GetByTelegramID returns a user by telegram id, nil if not found
func (r *UserRepo) GetByTelegramID(telegramID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.db.QueryRow(query, telegramID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user, assigning the next sequential user number
func (r *UserRepo) Create(user *domain.User) error {
	query := `
		INSERT INTO users (telegram_id, username, full_name, department, role, meeting_format,
			available_days, available_time_slot, user_number, is_active, registration_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(user_number), 0) + 1 FROM users), $9, $10)
		RETURNING user_number, created_at, updated_at
	`
	return r.db.QueryRow(query,
		user.TelegramID, nullString(user.Username), user.FullName,
		nullString(user.Department), nullString(user.Role), nullString(string(user.MeetingFormat)),
		nullString(user.AvailableDays), nullString(user.AvailableTimeSlot),
		user.IsActive, user.RegistrationComplete,
	).Scan(&user.UserNumber, &user.CreatedAt, &user.UpdatedAt)
}

// Update updates mutable profile fields
func (r *UserRepo) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, full_name = $3, department = $4, role = $5, meeting_format = $6,
			available_days = $7, available_time_slot = $8, updated_at = NOW()
		WHERE telegram_id = $1
	`
	_, err := r.db.Exec(query,
		user.TelegramID, nullString(user.Username), user.FullName,
		nullString(user.Department), nullString(user.Role), nullString(string(user.MeetingFormat)),
		nullString(user.AvailableDays), nullString(user.AvailableTimeSlot),
	)
	return err
}

// SetActive toggles the soft-disable flag
func (r *UserRepo) SetActive(telegramID int64, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE telegram_id = $1`
	_, err := r.db.Exec(query, telegramID, active)
	return err
}

// SetRegistrationComplete marks the profile as usable
func (r *UserRepo) SetRegistrationComplete(telegramID int64, complete bool) error {
	query := `UPDATE users SET registration_complete = $2, updated_at = NOW() WHERE telegram_id = $1`
	_, err := r.db.Exec(query, telegramID, complete)
	return err
}

// ListEligible returns users allowed to enter a pairing round
func (r *UserRepo) ListEligible() ([]domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND registration_complete = TRUE`
	return r.queryUsers(query)
}

// ListInactive returns registered users who opted out
func (r *UserRepo) ListInactive() ([]domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE is_active = FALSE AND registration_complete = TRUE`
	return r.queryUsers(query)
}

// CountAll returns the total number of users
func (r *UserRepo) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CountEligible returns the number of active, registered users
func (r *UserRepo) CountEligible() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_active = TRUE AND registration_complete = TRUE`
	err := r.db.QueryRow(query).Scan(&count)
	return count, err
}

// CountByDepartment returns user counts grouped by department
func (r *UserRepo) CountByDepartment() (map[string]int, error) {
	query := `
		SELECT department, COUNT(*) FROM users
		WHERE department IS NOT NULL
		GROUP BY department
	`
	return r.queryCounts(query)
}

// CountByFormat returns user counts grouped by meeting format
func (r *UserRepo) CountByFormat() (map[string]int, error) {
	query := `
		SELECT meeting_format, COUNT(*) FROM users
		WHERE meeting_format IS NOT NULL
		GROUP BY meeting_format
	`
	return r.queryCounts(query)
}

func (r *UserRepo) queryUsers(query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepo) queryCounts(query string) (map[string]int, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var username, department, role, format, days, slot sql.NullString

	err := row.Scan(
		&u.TelegramID, &username, &u.FullName, &department, &role, &format,
		&days, &slot, &u.UserNumber, &u.IsActive, &u.RegistrationComplete,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.Department = department.String
	u.Role = role.String
	u.MeetingFormat = domain.MeetingFormat(format.String)
	u.AvailableDays = days.String
	u.AvailableTimeSlot = slot.String
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package postgres

import (
	"fmt"
	"testing"
	"time"

	"coffeebot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func userRows(users ...domain.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"telegram_id", "username", "full_name", "department", "role", "meeting_format",
		"available_days", "available_time_slot", "user_number", "is_active", "registration_complete",
		"created_at", "updated_at",
	})
	for _, u := range users {
		rows.AddRow(
			u.TelegramID, u.Username, u.FullName, u.Department, u.Role, string(u.MeetingFormat),
			u.AvailableDays, u.AvailableTimeSlot, u.UserNumber, u.IsActive, u.RegistrationComplete,
			time.Now(), time.Now(),
		)
	}
	return rows
}

func TestUserRepo_GetByTelegramID(t *testing.T) {
	tests := []struct {
		name          string
		telegramID    int64
		mockRows      *sqlmock.Rows
		expectedNil   bool
		expectedError bool
	}{
		{
			name:       "existing user",
			telegramID: 123,
			mockRows: userRows(domain.User{
				TelegramID: 123, Username: "alisa", FullName: "Алиса",
				MeetingFormat: domain.FormatAny, IsActive: true, RegistrationComplete: true,
			}),
		},
		{
			name:        "unknown user returns nil without error",
			telegramID:  456,
			mockRows:    userRows(),
			expectedNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			mock.ExpectQuery("SELECT .* FROM users WHERE telegram_id").
				WithArgs(tt.telegramID).
				WillReturnRows(tt.mockRows)

			user, err := repo.GetByTelegramID(tt.telegramID)

			assert.NoError(t, err)
			if tt.expectedNil {
				assert.Nil(t, user)
			} else {
				assert.NotNil(t, user)
				assert.Equal(t, tt.telegramID, user.TelegramID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	user := &domain.User{
		TelegramID: 123,
		Username:   "alisa",
		FullName:   "Алиса",
		IsActive:   true,
	}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"user_number", "created_at", "updated_at"}).
			AddRow(7, time.Now(), time.Now()))

	err = repo.Create(user)

	assert.NoError(t, err)
	assert.Equal(t, 7, user.UserNumber, "Create must read back the assigned sequential number")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(int64(123), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetActive(123, false)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_ListEligible(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .* FROM users").
		WillReturnRows(userRows(
			domain.User{TelegramID: 1, FullName: "Алиса", IsActive: true, RegistrationComplete: true},
			domain.User{TelegramID: 2, FullName: "Борис", IsActive: true, RegistrationComplete: true},
		))

	users, err := repo.ListEligible()

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Алиса", users[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CountByDepartment(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT department, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"department", "count"}).
			AddRow("Инженерия", 12).
			AddRow("Маркетинг", 5))

	counts, err := repo.CountByDepartment()

	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"Инженерия": 12, "Маркетинг": 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CountAll_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnError(fmt.Errorf("db error"))

	_, err = repo.CountAll()

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

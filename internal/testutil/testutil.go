package testutil

import (
	"time"

	"coffeebot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates an eligible test user
func NewTestUser(telegramID int64, fullName string, format domain.MeetingFormat) domain.User {
	return domain.User{
		TelegramID:           telegramID,
		FullName:             fullName,
		MeetingFormat:        format,
		IsActive:             true,
		RegistrationComplete: true,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
}

// NewTestMeeting creates a test meeting between two users
func NewTestMeeting(id, user1ID, user2ID int64, scheduled *time.Time) domain.Meeting {
	return domain.Meeting{
		ID:            id,
		User1ID:       user1ID,
		User2ID:       user2ID,
		ScheduledDate: scheduled,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// NewTestInterest creates a test interest
func NewTestInterest(id int64, name string) domain.Interest {
	return domain.Interest{ID: id, Name: name, Emoji: "☕"}
}

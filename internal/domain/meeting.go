package domain

import "time"

// Meeting is an unordered pair of users scheduled to meet
type Meeting struct {
	ID                int64
	User1ID           int64
	User2ID           int64
	ScheduledDate     *time.Time
	IsConfirmed       bool
	IsCompleted       bool
	IsCancelled       bool
	ReminderSent      bool
	FeedbackRequested bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen reports whether the meeting is still pending
func (m *Meeting) IsOpen() bool {
	return !m.IsCompleted && !m.IsCancelled
}

// PartnerOf returns the other participant's ID, or 0 if userID is not a participant
func (m *Meeting) PartnerOf(userID int64) int64 {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return 0
}

// Involves reports whether userID is one of the two participants
func (m *Meeting) Involves(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

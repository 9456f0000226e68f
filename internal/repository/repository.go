package repository

import (
	"time"

	"coffeebot/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	GetByTelegramID(telegramID int64) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	SetActive(telegramID int64, active bool) error
	SetRegistrationComplete(telegramID int64, complete bool) error
	ListEligible() ([]domain.User, error)
	ListInactive() ([]domain.User, error)
	CountAll() (int, error)
	CountEligible() (int, error)
	CountByDepartment() (map[string]int, error)
	CountByFormat() (map[string]int, error)
}

// InterestRepository defines interest reference data operations
type InterestRepository interface {
	ListAll() ([]domain.Interest, error)
	GetForUser(userID int64) ([]domain.Interest, error)
	ReplaceForUser(userID int64, interestIDs []int64) error
}

// MeetingRepository defines meeting data operations
type MeetingRepository interface {
	Create(meeting *domain.Meeting) error
	GetByID(id int64) (*domain.Meeting, error)
	Delete(id int64) error
	ListByUser(userID int64) ([]domain.Meeting, error)
	RecentPartnerIDs(userID int64, limit int) ([]int64, error)
	ListDueReminder(from, to time.Time) ([]domain.Meeting, error)
	ListDueFeedback(before time.Time) ([]domain.Meeting, error)
	MarkReminderSent(id int64) error
	MarkFeedbackRequested(id int64) error
	SetScheduledDate(id int64, at time.Time) error
	Confirm(id int64) error
	Cancel(id int64) error
	CountAll() (int, error)
}

// FeedbackRepository defines feedback data operations
type FeedbackRepository interface {
	Create(feedback *domain.Feedback) error
	Exists(meetingID, fromUserID int64) (bool, error)
	AverageRatingFor(userID int64) (float64, error)
	AverageRating() (float64, error)
	CountAll() (int, error)
}

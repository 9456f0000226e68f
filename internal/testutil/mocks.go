package testutil

import (
	"context"
	"time"

	"coffeebot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByTelegramID(telegramID int64) (*domain.User, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(telegramID int64, active bool) error {
	args := m.Called(telegramID, active)
	return args.Error(0)
}

func (m *MockUserRepository) SetRegistrationComplete(telegramID int64, complete bool) error {
	args := m.Called(telegramID, complete)
	return args.Error(0)
}

func (m *MockUserRepository) ListEligible() ([]domain.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListInactive() ([]domain.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) CountAll() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) CountEligible() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) CountByDepartment() (map[string]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockUserRepository) CountByFormat() (map[string]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockInterestRepository is a mock for InterestRepository
type MockInterestRepository struct {
	mock.Mock
}

func (m *MockInterestRepository) ListAll() ([]domain.Interest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interest), args.Error(1)
}

func (m *MockInterestRepository) GetForUser(userID int64) ([]domain.Interest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interest), args.Error(1)
}

func (m *MockInterestRepository) ReplaceForUser(userID int64, interestIDs []int64) error {
	args := m.Called(userID, interestIDs)
	return args.Error(0)
}

// MockMeetingRepository is a mock for MeetingRepository
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(meeting *domain.Meeting) error {
	args := m.Called(meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetByID(id int64) (*domain.Meeting, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMeetingRepository) ListByUser(userID int64) ([]domain.Meeting, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) RecentPartnerIDs(userID int64, limit int) ([]int64, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockMeetingRepository) ListDueReminder(from, to time.Time) ([]domain.Meeting, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListDueFeedback(before time.Time) ([]domain.Meeting, error) {
	args := m.Called(before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) MarkReminderSent(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMeetingRepository) MarkFeedbackRequested(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMeetingRepository) SetScheduledDate(id int64, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockMeetingRepository) Confirm(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMeetingRepository) Cancel(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMeetingRepository) CountAll() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockFeedbackRepository is a mock for FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(feedback *domain.Feedback) error {
	args := m.Called(feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Exists(meetingID, fromUserID int64) (bool, error) {
	args := m.Called(meetingID, fromUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedbackRepository) AverageRatingFor(userID int64) (float64, error) {
	args := m.Called(userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFeedbackRepository) AverageRating() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFeedbackRepository) CountAll() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockNotifier is a mock for service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMatch(ctx context.Context, user, partner domain.User, shared []domain.Interest) error {
	args := m.Called(ctx, user, partner, shared)
	return args.Error(0)
}

func (m *MockNotifier) SendReminder(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error {
	args := m.Called(ctx, user, partner, meeting)
	return args.Error(0)
}

func (m *MockNotifier) SendFeedbackRequest(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error {
	args := m.Called(ctx, user, partner, meeting)
	return args.Error(0)
}

func (m *MockNotifier) SendReactivation(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

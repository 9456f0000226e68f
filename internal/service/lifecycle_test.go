package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"coffeebot/internal/clock"
	"coffeebot/internal/domain"
	"coffeebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLifecycleServiceForTest(
	users *testutil.MockUserRepository,
	meetings *testutil.MockMeetingRepository,
	notifier *testutil.MockNotifier,
) *LifecycleService {
	return NewLifecycleService(users, meetings, clock.New(), notifier, testutil.NewTestLogger())
}

func TestLifecycleService_ReminderSweep(t *testing.T) {
	scheduled := time.Now().Add(30 * time.Minute)
	meeting := testutil.NewTestMeeting(10, 1, 2, &scheduled)
	user1 := testutil.NewTestUser(1, "Алиса", domain.FormatAny)
	user2 := testutil.NewTestUser(2, "Борис", domain.FormatAny)

	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockNotifier := new(testutil.MockNotifier)

	mockMeetings.On("ListDueReminder", mock.Anything, mock.Anything).
		Return([]domain.Meeting{meeting}, nil)
	mockUsers.On("GetByTelegramID", int64(1)).Return(&user1, nil)
	mockUsers.On("GetByTelegramID", int64(2)).Return(&user2, nil)
	mockNotifier.On("SendReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockMeetings.On("MarkReminderSent", int64(10)).Return(nil)

	service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
	err := service.ReminderSweep(context.Background())

	assert.NoError(t, err)
	mockNotifier.AssertNumberOfCalls(t, "SendReminder", 2)
	mockMeetings.AssertCalled(t, "MarkReminderSent", int64(10))
}

func TestLifecycleService_ReminderSweep_QueriesOneHourWindow(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockNotifier := new(testutil.MockNotifier)

	var from, to time.Time
	mockMeetings.On("ListDueReminder", mock.Anything, mock.Anything).
		Return([]domain.Meeting{}, nil).
		Run(func(args mock.Arguments) {
			from = args.Get(0).(time.Time)
			to = args.Get(1).(time.Time)
		})

	service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
	err := service.ReminderSweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, time.Hour, to.Sub(from))
}

func TestLifecycleService_ReminderSweep_MissingParticipantSkipsMeetingOnly(t *testing.T) {
	scheduled := time.Now().Add(30 * time.Minute)
	broken := testutil.NewTestMeeting(10, 1, 999, &scheduled)
	healthy := testutil.NewTestMeeting(11, 1, 2, &scheduled)
	user1 := testutil.NewTestUser(1, "Алиса", domain.FormatAny)
	user2 := testutil.NewTestUser(2, "Борис", domain.FormatAny)

	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockNotifier := new(testutil.MockNotifier)

	mockMeetings.On("ListDueReminder", mock.Anything, mock.Anything).
		Return([]domain.Meeting{broken, healthy}, nil)
	mockUsers.On("GetByTelegramID", int64(1)).Return(&user1, nil)
	mockUsers.On("GetByTelegramID", int64(2)).Return(&user2, nil)
	mockUsers.On("GetByTelegramID", int64(999)).Return(nil, nil)
	mockNotifier.On("SendReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockMeetings.On("MarkReminderSent", int64(11)).Return(nil)

	service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
	err := service.ReminderSweep(context.Background())

	assert.NoError(t, err)
	mockMeetings.AssertCalled(t, "MarkReminderSent", int64(11))
	mockMeetings.AssertNotCalled(t, "MarkReminderSent", int64(10))
}

func TestLifecycleService_FeedbackSweep(t *testing.T) {
	scheduled := time.Now().Add(-2 * time.Hour)
	meeting := testutil.NewTestMeeting(20, 1, 2, &scheduled)
	user1 := testutil.NewTestUser(1, "Алиса", domain.FormatAny)
	user2 := testutil.NewTestUser(2, "Борис", domain.FormatAny)

	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockNotifier := new(testutil.MockNotifier)

	mockMeetings.On("ListDueFeedback", mock.Anything).
		Return([]domain.Meeting{meeting}, nil)
	mockUsers.On("GetByTelegramID", int64(1)).Return(&user1, nil)
	mockUsers.On("GetByTelegramID", int64(2)).Return(&user2, nil)
	mockNotifier.On("SendFeedbackRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockMeetings.On("MarkFeedbackRequested", int64(20)).Return(nil)

	service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
	err := service.FeedbackSweep(context.Background())

	assert.NoError(t, err)
	mockNotifier.AssertNumberOfCalls(t, "SendFeedbackRequest", 2)
	mockMeetings.AssertCalled(t, "MarkFeedbackRequested", int64(20))
}

func TestLifecycleService_ReactivationSweep(t *testing.T) {
	inactive := []domain.User{
		testutil.NewTestUser(1, "Алиса", domain.FormatAny),
		testutil.NewTestUser(2, "Борис", domain.FormatAny),
	}

	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockNotifier := new(testutil.MockNotifier)

	mockUsers.On("ListInactive").Return(inactive, nil)
	// One failed delivery must not stop the sweep
	mockNotifier.On("SendReactivation", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.TelegramID == 1
	})).Return(fmt.Errorf("blocked by user"))
	mockNotifier.On("SendReactivation", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.TelegramID == 2
	})).Return(nil)

	service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
	err := service.ReactivationSweep(context.Background())

	assert.NoError(t, err)
	mockNotifier.AssertNumberOfCalls(t, "SendReactivation", 2)
}

func TestLifecycleService_Cancel(t *testing.T) {
	tests := []struct {
		name          string
		meeting       *domain.Meeting
		getError      error
		expectCancel  bool
		expectedError bool
	}{
		{
			name:         "open meeting is cancelled",
			meeting:      &domain.Meeting{ID: 1, User1ID: 1, User2ID: 2},
			expectCancel: true,
		},
		{
			name:    "already cancelled meeting is a no-op",
			meeting: &domain.Meeting{ID: 1, User1ID: 1, User2ID: 2, IsCancelled: true},
		},
		{
			name:    "completed meeting is a no-op",
			meeting: &domain.Meeting{ID: 1, User1ID: 1, User2ID: 2, IsCompleted: true},
		},
		{
			name:          "unknown meeting",
			meeting:       nil,
			expectedError: true,
		},
		{
			name:          "repository error",
			getError:      fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(testutil.MockUserRepository)
			mockMeetings := new(testutil.MockMeetingRepository)
			mockNotifier := new(testutil.MockNotifier)

			mockMeetings.On("GetByID", int64(1)).Return(tt.meeting, tt.getError)
			if tt.expectCancel {
				mockMeetings.On("Cancel", int64(1)).Return(nil)
			}

			service := newLifecycleServiceForTest(mockUsers, mockMeetings, mockNotifier)
			err := service.Cancel(1)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectCancel {
				mockMeetings.AssertCalled(t, "Cancel", int64(1))
			} else {
				mockMeetings.AssertNotCalled(t, "Cancel", mock.Anything)
			}
		})
	}
}

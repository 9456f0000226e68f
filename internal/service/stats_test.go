package service

import (
	"fmt"
	"testing"

	"coffeebot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestStatsService_Summary(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockFeedbacks := new(testutil.MockFeedbackRepository)

	mockUsers.On("CountAll").Return(42, nil)
	mockUsers.On("CountEligible").Return(30, nil)
	mockMeetings.On("CountAll").Return(100, nil)
	mockFeedbacks.On("CountAll").Return(55, nil)

	service := NewStatsService(mockUsers, mockMeetings, mockFeedbacks, testutil.NewTestLogger())
	summary, err := service.Summary()

	assert.NoError(t, err)
	assert.Equal(t, 42, summary.TotalUsers)
	assert.Equal(t, 30, summary.ActiveUsers)
	assert.Equal(t, 100, summary.TotalMeetings)
	assert.Equal(t, 55, summary.TotalFeedback)
}

func TestStatsService_Summary_Error(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockFeedbacks := new(testutil.MockFeedbackRepository)

	mockUsers.On("CountAll").Return(0, fmt.Errorf("db error"))

	service := NewStatsService(mockUsers, mockMeetings, mockFeedbacks, testutil.NewTestLogger())
	summary, err := service.Summary()

	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestStatsService_Detailed(t *testing.T) {
	mockUsers := new(testutil.MockUserRepository)
	mockMeetings := new(testutil.MockMeetingRepository)
	mockFeedbacks := new(testutil.MockFeedbackRepository)

	mockUsers.On("CountByDepartment").Return(map[string]int{"Инженерия": 12, "Маркетинг": 5}, nil)
	mockUsers.On("CountByFormat").Return(map[string]int{"offline": 7, "any": 10}, nil)
	mockFeedbacks.On("AverageRating").Return(4.3, nil)

	service := NewStatsService(mockUsers, mockMeetings, mockFeedbacks, testutil.NewTestLogger())
	detailed, err := service.Detailed()

	assert.NoError(t, err)
	assert.Equal(t, 12, detailed.ByDepartment["Инженерия"])
	assert.Equal(t, 10, detailed.ByFormat["any"])
	assert.InDelta(t, 4.3, detailed.AverageRating, 0.001)
}

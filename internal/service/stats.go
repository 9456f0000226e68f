package service

import (
	"coffeebot/internal/repository"

	"go.uber.org/zap"
)

// Summary is the headline numbers for the admin panel
type Summary struct {
	TotalUsers    int
	ActiveUsers   int
	TotalMeetings int
	TotalFeedback int
}

// Detailed carries the breakdowns for the detailed stats command
type Detailed struct {
	ByDepartment  map[string]int
	ByFormat      map[string]int
	AverageRating float64
}

// StatsService aggregates numbers for the admin surface
type StatsService struct {
	users     repository.UserRepository
	meetings  repository.MeetingRepository
	feedbacks repository.FeedbackRepository
	logger    *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	users repository.UserRepository,
	meetings repository.MeetingRepository,
	feedbacks repository.FeedbackRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		users:     users,
		meetings:  meetings,
		feedbacks: feedbacks,
		logger:    logger,
	}
}

// Summary returns the headline counters
func (s *StatsService) Summary() (*Summary, error) {
	total, err := s.users.CountAll()
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountEligible()
	if err != nil {
		return nil, err
	}
	meetings, err := s.meetings.CountAll()
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedbacks.CountAll()
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalUsers:    total,
		ActiveUsers:   active,
		TotalMeetings: meetings,
		TotalFeedback: feedback,
	}, nil
}

// Detailed returns per-department and per-format breakdowns plus the
// overall average rating
func (s *StatsService) Detailed() (*Detailed, error) {
	byDepartment, err := s.users.CountByDepartment()
	if err != nil {
		return nil, err
	}
	byFormat, err := s.users.CountByFormat()
	if err != nil {
		return nil, err
	}
	avg, err := s.feedbacks.AverageRating()
	if err != nil {
		return nil, err
	}
	return &Detailed{
		ByDepartment:  byDepartment,
		ByFormat:      byFormat,
		AverageRating: avg,
	}, nil
}

package service

import (
	"fmt"

	"coffeebot/internal/domain"
	"coffeebot/internal/repository"

	"go.uber.org/zap"
)

// FeedbackService records post-meeting feedback
type FeedbackService struct {
	meetings  repository.MeetingRepository
	feedbacks repository.FeedbackRepository
	logger    *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	meetings repository.MeetingRepository,
	feedbacks repository.FeedbackRepository,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{meetings: meetings, feedbacks: feedbacks, logger: logger}
}

// Submit records feedback for one meeting direction. A second
// submission for the same (meeting, from user) is silently ignored.
func (s *FeedbackService) Submit(meetingID, fromUserID int64, rating int, comment, improvement string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return fmt.Errorf("meeting %d not found", meetingID)
	}
	if !meeting.Involves(fromUserID) {
		return fmt.Errorf("user %d is not a participant of meeting %d", fromUserID, meetingID)
	}

	exists, err := s.feedbacks.Exists(meetingID, fromUserID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("Feedback already given, ignoring",
			zap.Int64("meeting_id", meetingID),
			zap.Int64("from_user_id", fromUserID),
		)
		return nil
	}

	feedback := &domain.Feedback{
		MeetingID:             meetingID,
		FromUserID:            fromUserID,
		ToUserID:              meeting.PartnerOf(fromUserID),
		Rating:                rating,
		Comment:               comment,
		ImprovementSuggestion: improvement,
	}
	if err := s.feedbacks.Create(feedback); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

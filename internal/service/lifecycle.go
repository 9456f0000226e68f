package service

import (
	"context"
	"fmt"
	"time"

	"coffeebot/internal/clock"
	"coffeebot/internal/domain"
	"coffeebot/internal/repository"

	"go.uber.org/zap"
)

// reminderWindow is how far ahead of the scheduled time a reminder goes out
const reminderWindow = time.Hour

// LifecycleService advances meetings through their state machine.
// All time comparisons go through the virtual clock, so enabling test
// mode compresses the cadence without touching these code paths.
type LifecycleService struct {
	users    repository.UserRepository
	meetings repository.MeetingRepository
	clock    *clock.Clock
	notifier Notifier
	logger   *zap.Logger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	users repository.UserRepository,
	meetings repository.MeetingRepository,
	clk *clock.Clock,
	notifier Notifier,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		users:    users,
		meetings: meetings,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// ReminderSweep reminds participants of meetings starting within the
// next hour of virtual time. The reminder_sent flag makes the sweep
// safe to re-run: a meeting is reminded exactly once.
func (s *LifecycleService) ReminderSweep(ctx context.Context) error {
	now := s.clock.Now()

	due, err := s.meetings.ListDueReminder(now, now.Add(reminderWindow))
	if err != nil {
		return fmt.Errorf("failed to list meetings due for reminder: %w", err)
	}

	reminded := 0
	for _, meeting := range due {
		user1, user2, ok := s.resolveParticipants(meeting)
		if !ok {
			continue
		}

		if err := s.notifier.SendReminder(ctx, *user1, *user2, meeting); err != nil {
			s.logger.Warn("Failed to deliver reminder",
				zap.Int64("user_id", user1.TelegramID), zap.Error(err))
		}
		if err := s.notifier.SendReminder(ctx, *user2, *user1, meeting); err != nil {
			s.logger.Warn("Failed to deliver reminder",
				zap.Int64("user_id", user2.TelegramID), zap.Error(err))
		}

		if err := s.meetings.MarkReminderSent(meeting.ID); err != nil {
			s.logger.Error("Failed to mark reminder sent",
				zap.Int64("meeting_id", meeting.ID), zap.Error(err))
			continue
		}
		reminded++
	}

	s.logger.Info("Reminder sweep completed",
		zap.Int("due", len(due)), zap.Int("reminded", reminded))
	return nil
}

// FeedbackSweep requests feedback for meetings whose scheduled time has
// passed in virtual time, moving them to the terminal completed state.
func (s *LifecycleService) FeedbackSweep(ctx context.Context) error {
	now := s.clock.Now()

	due, err := s.meetings.ListDueFeedback(now)
	if err != nil {
		return fmt.Errorf("failed to list meetings due for feedback: %w", err)
	}

	requested := 0
	for _, meeting := range due {
		user1, user2, ok := s.resolveParticipants(meeting)
		if !ok {
			continue
		}

		if err := s.notifier.SendFeedbackRequest(ctx, *user1, *user2, meeting); err != nil {
			s.logger.Warn("Failed to deliver feedback request",
				zap.Int64("user_id", user1.TelegramID), zap.Error(err))
		}
		if err := s.notifier.SendFeedbackRequest(ctx, *user2, *user1, meeting); err != nil {
			s.logger.Warn("Failed to deliver feedback request",
				zap.Int64("user_id", user2.TelegramID), zap.Error(err))
		}

		if err := s.meetings.MarkFeedbackRequested(meeting.ID); err != nil {
			s.logger.Error("Failed to mark feedback requested",
				zap.Int64("meeting_id", meeting.ID), zap.Error(err))
			continue
		}
		requested++
	}

	s.logger.Info("Feedback sweep completed",
		zap.Int("due", len(due)), zap.Int("requested", requested))
	return nil
}

// ReactivationSweep nudges registered users who opted out
func (s *LifecycleService) ReactivationSweep(ctx context.Context) error {
	inactive, err := s.users.ListInactive()
	if err != nil {
		return fmt.Errorf("failed to list inactive users: %w", err)
	}

	for _, user := range inactive {
		if err := s.notifier.SendReactivation(ctx, user); err != nil {
			s.logger.Warn("Failed to deliver reactivation nudge",
				zap.Int64("user_id", user.TelegramID), zap.Error(err))
		}
	}

	s.logger.Info("Reactivation sweep completed", zap.Int("inactive_users", len(inactive)))
	return nil
}

// Cancel puts a meeting into the absorbing cancelled state
func (s *LifecycleService) Cancel(meetingID int64) error {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return fmt.Errorf("meeting %d not found", meetingID)
	}
	if !meeting.IsOpen() {
		return nil
	}
	return s.meetings.Cancel(meetingID)
}

// resolveParticipants loads both users of a meeting. A missing profile
// skips the single meeting, never the whole sweep.
func (s *LifecycleService) resolveParticipants(meeting domain.Meeting) (*domain.User, *domain.User, bool) {
	user1, err := s.users.GetByTelegramID(meeting.User1ID)
	if err != nil || user1 == nil {
		s.logger.Warn("Skipping meeting, participant not resolvable",
			zap.Int64("meeting_id", meeting.ID),
			zap.Int64("user_id", meeting.User1ID),
			zap.Error(err))
		return nil, nil, false
	}
	user2, err := s.users.GetByTelegramID(meeting.User2ID)
	if err != nil || user2 == nil {
		s.logger.Warn("Skipping meeting, participant not resolvable",
			zap.Int64("meeting_id", meeting.ID),
			zap.Int64("user_id", meeting.User2ID),
			zap.Error(err))
		return nil, nil, false
	}
	return user1, user2, true
}

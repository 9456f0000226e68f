package service

import (
	"fmt"

	"coffeebot/internal/domain"
	"coffeebot/internal/repository"

	"go.uber.org/zap"
)

// ProfileService handles user onboarding and profile changes
type ProfileService struct {
	users     repository.UserRepository
	interests repository.InterestRepository
	logger    *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	users repository.UserRepository,
	interests repository.InterestRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{users: users, interests: interests, logger: logger}
}

// EnsureUser returns the user, creating a blank profile on first contact
func (s *ProfileService) EnsureUser(telegramID int64, fullName, username string) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &domain.User{
		TelegramID: telegramID,
		Username:   username,
		FullName:   fullName,
		IsActive:   true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Created new user",
		zap.Int64("telegram_id", telegramID),
		zap.Int("user_number", user.UserNumber),
	)
	return user, nil
}

// CompleteRegistration applies a finished registration draft and marks
// the profile usable for pairing
func (s *ProfileService) CompleteRegistration(telegramID int64, draft domain.RegistrationDraft) error {
	user, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d not found", telegramID)
	}

	user.FullName = draft.FullName
	user.Department = draft.Department
	user.Role = draft.Role
	user.MeetingFormat = draft.Format

	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if err := s.interests.ReplaceForUser(telegramID, draft.InterestIDs); err != nil {
		return fmt.Errorf("failed to save interests: %w", err)
	}
	if err := s.users.SetRegistrationComplete(telegramID, true); err != nil {
		return fmt.Errorf("failed to complete registration: %w", err)
	}

	s.logger.Info("Registration completed", zap.Int64("telegram_id", telegramID))
	return nil
}

// SetActive toggles participation in pairing rounds
func (s *ProfileService) SetActive(telegramID int64, active bool) error {
	return s.users.SetActive(telegramID, active)
}

// ListInterests returns the selectable interest reference data
func (s *ProfileService) ListInterests() ([]domain.Interest, error) {
	return s.interests.ListAll()
}

package domain

import "time"

// MeetingFormat is the user's preferred way to meet
type MeetingFormat string

const (
	FormatOffline MeetingFormat = "offline"
	FormatOnline  MeetingFormat = "online"
	FormatAny     MeetingFormat = "any"
)

// CompatibleWith reports whether two format preferences allow a meeting.
// Formats conflict only when both sides insist on different concrete formats.
func (f MeetingFormat) CompatibleWith(other MeetingFormat) bool {
	if f == FormatAny || other == FormatAny || f == "" || other == "" {
		return true
	}
	return f == other
}

// DisplayString returns a user-friendly format name
func (f MeetingFormat) DisplayString() string {
	switch f {
	case FormatOffline:
		return "Оффлайн 🏢"
	case FormatOnline:
		return "Онлайн 💻"
	case FormatAny:
		return "Любой 🔄"
	}
	return "Не указан"
}

// User represents a community member
type User struct {
	TelegramID           int64
	Username             string
	FullName             string
	Department           string
	Role                 string
	MeetingFormat        MeetingFormat
	AvailableDays        string
	AvailableTimeSlot    string
	UserNumber           int
	IsActive             bool
	RegistrationComplete bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Eligible reports whether the user may enter a pairing round
func (u *User) Eligible() bool {
	return u.IsActive && u.RegistrationComplete
}

package domain

import "time"

// Feedback is one participant's review of a meeting.
// At most one feedback exists per (meeting, from user) direction.
type Feedback struct {
	ID                    int64
	MeetingID             int64
	FromUserID            int64
	ToUserID              int64
	Rating                int
	Comment               string
	ImprovementSuggestion string
	CreatedAt             time.Time
}

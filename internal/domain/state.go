package domain

// DialogState tags the current step of a multi-step dialog.
// Values are persisted in the conversation state store, so they must
// stay stable across releases.
type DialogState string

const (
	StateRegName         DialogState = "registration:name"
	StateRegDepartment   DialogState = "registration:department"
	StateRegRole         DialogState = "registration:role"
	StateRegFormat       DialogState = "registration:format"
	StateRegInterests    DialogState = "registration:interests"
	StateRegConfirm      DialogState = "registration:confirm"
	StateFeedbackRating  DialogState = "feedback:rating"
	StateFeedbackComment DialogState = "feedback:comment"
	StateFeedbackImprove DialogState = "feedback:improve"
)

// RegistrationDraft carries the fields collected during registration.
// It round-trips through the string-keyed data bag of the state store,
// keeping the persisted JSON shape of the original flat keys.
type RegistrationDraft struct {
	FullName    string
	Department  string
	Role        string
	Format      MeetingFormat
	InterestIDs []int64
}

// ToData flattens the draft into the state store's data bag
func (d RegistrationDraft) ToData() map[string]interface{} {
	ids := make([]interface{}, 0, len(d.InterestIDs))
	for _, id := range d.InterestIDs {
		ids = append(ids, float64(id))
	}
	return map[string]interface{}{
		"full_name":      d.FullName,
		"department":     d.Department,
		"role":           d.Role,
		"meeting_format": string(d.Format),
		"interest_ids":   ids,
	}
}

// RegistrationDraftFromData rebuilds a draft from the data bag
func RegistrationDraftFromData(data map[string]interface{}) RegistrationDraft {
	d := RegistrationDraft{
		FullName:   stringValue(data, "full_name"),
		Department: stringValue(data, "department"),
		Role:       stringValue(data, "role"),
		Format:     MeetingFormat(stringValue(data, "meeting_format")),
	}
	if raw, ok := data["interest_ids"].([]interface{}); ok {
		for _, v := range raw {
			if f, ok := v.(float64); ok {
				d.InterestIDs = append(d.InterestIDs, int64(f))
			}
		}
	}
	return d
}

// FeedbackDraft carries the fields collected during the feedback dialog
type FeedbackDraft struct {
	MeetingID int64
	ToUserID  int64
	Rating    int
	Comment   string
}

// ToData flattens the draft into the state store's data bag
func (d FeedbackDraft) ToData() map[string]interface{} {
	return map[string]interface{}{
		"meeting_id": float64(d.MeetingID),
		"to_user_id": float64(d.ToUserID),
		"rating":     float64(d.Rating),
		"comment":    d.Comment,
	}
}

// FeedbackDraftFromData rebuilds a draft from the data bag
func FeedbackDraftFromData(data map[string]interface{}) FeedbackDraft {
	return FeedbackDraft{
		MeetingID: int64(floatValue(data, "meeting_id")),
		ToUserID:  int64(floatValue(data, "to_user_id")),
		Rating:    int(floatValue(data, "rating")),
		Comment:   stringValue(data, "comment"),
	}
}

func stringValue(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func floatValue(data map[string]interface{}, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}

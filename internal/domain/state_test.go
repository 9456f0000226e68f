package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationDraft_RoundTrip(t *testing.T) {
	draft := RegistrationDraft{
		FullName:    "Алиса Иванова",
		Department:  "Инженерия",
		Role:        "Разработчик",
		Format:      FormatOffline,
		InterestIDs: []int64{1, 3, 4},
	}

	restored := RegistrationDraftFromData(draft.ToData())
	assert.Equal(t, draft, restored)
}

func TestRegistrationDraft_SurvivesJSONEncoding(t *testing.T) {
	// The data bag is persisted as JSON, which turns every number into
	// a float64. The round trip must survive that.
	draft := RegistrationDraft{
		FullName:    "Борис",
		Format:      FormatAny,
		InterestIDs: []int64{2},
	}

	encoded, err := json.Marshal(draft.ToData())
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &data))

	restored := RegistrationDraftFromData(data)
	assert.Equal(t, draft, restored)
}

func TestRegistrationDraftFromData_EmptyBag(t *testing.T) {
	restored := RegistrationDraftFromData(map[string]interface{}{})

	assert.Empty(t, restored.FullName)
	assert.Empty(t, restored.InterestIDs)
	assert.Equal(t, MeetingFormat(""), restored.Format)
}

func TestFeedbackDraft_RoundTrip(t *testing.T) {
	draft := FeedbackDraft{
		MeetingID: 42,
		ToUserID:  7,
		Rating:    5,
		Comment:   "отличная встреча",
	}

	restored := FeedbackDraftFromData(draft.ToData())
	assert.Equal(t, draft, restored)
}

func TestFeedbackDraft_SurvivesJSONEncoding(t *testing.T) {
	draft := FeedbackDraft{MeetingID: 42, ToUserID: 7, Rating: 3}

	encoded, err := json.Marshal(draft.ToData())
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &data))

	restored := FeedbackDraftFromData(data)
	assert.Equal(t, draft, restored)
}

package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestParseSettingsEmpty(t *testing.T) {
	s, err := ParseSettings(nil)
	require.NoError(t, err)
	assert.False(t, s.MaxResponses.Set)
	assert.Nil(t, s.RequireLogin)
}

func TestParseSettingsInvalidJSON(t *testing.T) {
	_, err := ParseSettings([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseSettingsClampsMaxResponses(t *testing.T) {
	s, err := ParseSettings([]byte(`{"max_responses": 0}`))
	require.NoError(t, err)
	require.NotNil(t, s.MaxResponses.Value)
	assert.Equal(t, 1, *s.MaxResponses.Value)
}

func TestNullableIntDistinguishesNull(t *testing.T) {
	var s TemplateSettings
	require.NoError(t, json.Unmarshal([]byte(`{"max_responses": null}`), &s))
	assert.True(t, s.MaxResponses.Set)
	assert.Nil(t, s.MaxResponses.Value)

	var s2 TemplateSettings
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s2))
	assert.False(t, s2.MaxResponses.Set)
}

func TestMergeSettings(t *testing.T) {
	ten := 10
	base := &TemplateSettings{
		MaxResponses: NullableInt{Set: true, Value: &ten},
		RequireLogin: boolPtr(true),
	}

	// untouched fields survive the patch
	merged := MergeSettings(base, &TemplateSettings{CollectEmail: boolPtr(true)})
	require.NotNil(t, merged.MaxResponses.Value)
	assert.Equal(t, 10, *merged.MaxResponses.Value)
	assert.True(t, *merged.RequireLogin)
	assert.True(t, *merged.CollectEmail)

	// explicit null clears the cap
	merged = MergeSettings(base, &TemplateSettings{MaxResponses: NullableInt{Set: true, Value: nil}})
	assert.True(t, merged.MaxResponses.Set)
	assert.Nil(t, merged.MaxResponses.Value)
}

func TestSettingsJSONRoundTrip(t *testing.T) {
	five := 5
	s := &TemplateSettings{
		MaxResponses: NullableInt{Set: true, Value: &five},
		CollectEmail: boolPtr(true),
	}

	raw, err := SettingsJSON(s)
	require.NoError(t, err)

	parsed, err := ParseSettings([]byte(raw))
	require.NoError(t, err)
	require.NotNil(t, parsed.MaxResponses.Value)
	assert.Equal(t, 5, *parsed.MaxResponses.Value)
	assert.True(t, *parsed.CollectEmail)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSet_AddKeepsOrderAndDropsDuplicates(t *testing.T) {
	s := NewTagSet("Interested", " Automations ", "Interested", "")

	assert.Equal(t, []string{"Interested", "Automations"}, s.Values())
	assert.False(t, s.Add("Automations"))
	assert.True(t, s.Add("VIP"))
	assert.Equal(t, 3, s.Len())
}

func TestTagSet_Remove(t *testing.T) {
	s := NewTagSet("a", "b", "c")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("missing"))
	assert.Equal(t, []string{"a", "c"}, s.Values())
}

func TestTagSet_ValuesIsACopy(t *testing.T) {
	s := NewTagSet("a")
	v := s.Values()
	v[0] = "mutated"

	assert.Equal(t, []string{"a"}, s.Values())
}

func TestParseTagSet(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"valid array", `["Interested","Automations"]`, []string{"Interested", "Automations"}},
		{"empty array", `[]`, []string{}},
		{"empty text", ``, []string{}},
		{"not json", `Interested,Automations`, []string{}},
		{"wrong shape", `{"tag":"x"}`, []string{}},
		{"duplicates in storage", `["a","a","b"]`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagSet(tt.text).Values())
		})
	}
}

func TestTagSet_EncodeAndJSON(t *testing.T) {
	assert.Equal(t, `[]`, TagSet{}.Encode())
	assert.Equal(t, `["Interested","Automations"]`, NewTagSet("Interested", "Automations").Encode())

	var s TagSet
	require.NoError(t, json.Unmarshal([]byte(`["x","x","y"]`), &s))
	assert.Equal(t, []string{"x", "y"}, s.Values())

	out, err := json.Marshal(struct {
		Tags TagSet `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(out))
}

func TestOptional_TracksPresenceAndNull(t *testing.T) {
	var req UpdateLeadRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Won","deal_value":null}`), &req))

	assert.True(t, req.Status.Set)
	assert.False(t, req.Status.Null)
	assert.Equal(t, "Won", req.Status.Value)

	assert.True(t, req.DealValue.Set)
	assert.True(t, req.DealValue.Null)

	assert.False(t, req.Score.Set)
	assert.False(t, req.Tags.Set)
}

func TestLeadRecord_LeadDegradesMalformedTags(t *testing.T) {
	rec := LeadRecord{ID: 1, Name: "Sarah", Tags: "not-json"}

	lead := rec.Lead()

	assert.Equal(t, int64(1), lead.ID)
	assert.Equal(t, 0, lead.Tags.Len())
}

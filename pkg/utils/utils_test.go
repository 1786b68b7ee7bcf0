package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", h)
	assert.True(t, CheckPassword("s3cret", h))
	assert.False(t, CheckPassword("wrong", h))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 7, 1, 10, 30, 0, 0, time.Local)

	for _, in := range []string{"2025-07-01T10:30", "2025-07-01T10:30:00", "2025-07-01 10:30:00"} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	got, err := ParseTime("2025-07-01T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)))

	_, err = ParseTime("01/07/2025")
	assert.Error(t, err)
}

func TestFlexTimeJSON(t *testing.T) {
	var in struct {
		Start FlexTime `json:"start"`
		End   FlexTime `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-07-01T10:00","end":null}`), &in))
	assert.Equal(t, 10, in.Start.Hour())
	assert.True(t, in.End.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"tomorrow"}`), &in))
}

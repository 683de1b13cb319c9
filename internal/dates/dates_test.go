package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("New normalizes overflow", func(t *testing.T) {
		d := New(2026, time.January, 32)
		assert.Equal(t, New(2026, time.February, 1), d)
	})

	t.Run("Equal compares days not instants", func(t *testing.T) {
		morning := time.Date(2026, 8, 29, 9, 15, 0, 0, time.Local)
		evening := time.Date(2026, 8, 29, 22, 45, 0, 0, time.Local)
		assert.True(t, FromTime(morning).Equal(FromTime(evening)))
	})

	t.Run("Add crosses month boundary", func(t *testing.T) {
		d := New(2026, time.August, 31).Add(1)
		assert.Equal(t, New(2026, time.September, 1), d)
	})

	t.Run("Parse round trips String", func(t *testing.T) {
		d := New(2026, time.March, 7)
		parsed, err := Parse(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	})

	t.Run("Parse rejects garbage", func(t *testing.T) {
		_, err := Parse("not-a-date")
		assert.Error(t, err)
	})

	t.Run("ParseFeed reads fund feed layout", func(t *testing.T) {
		d, err := ParseFeed("28-Nov-2025")
		require.NoError(t, err)
		assert.Equal(t, New(2025, time.November, 28), d)
	})

	t.Run("Before and After", func(t *testing.T) {
		yesterday := New(2026, time.August, 28)
		today := New(2026, time.August, 29)
		assert.True(t, yesterday.Before(today))
		assert.True(t, today.After(yesterday))
		assert.False(t, today.Before(today))
	})
}

func TestDateJSON(t *testing.T) {
	type doc struct {
		Day Date `json:"day"`
	}

	t.Run("round trip", func(t *testing.T) {
		in := doc{Day: New(2026, time.August, 29)}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		assert.JSONEq(t, `{"day":"2026-08-29"}`, string(data))

		var out doc
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in.Day, out.Day)
	})

	t.Run("invalid payload", func(t *testing.T) {
		var out doc
		err := json.Unmarshal([]byte(`{"day":"29/08/2026"}`), &out)
		assert.Error(t, err)
	})

	t.Run("zero date encodes as null and round trips", func(t *testing.T) {
		data, err := json.Marshal(doc{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"day":null}`, string(data))

		var out doc
		require.NoError(t, json.Unmarshal(data, &out))
		assert.True(t, out.Day.IsZero())
	})

	t.Run("empty string decodes to zero date", func(t *testing.T) {
		var out doc
		require.NoError(t, json.Unmarshal([]byte(`{"day":""}`), &out))
		assert.True(t, out.Day.IsZero())
	})
}

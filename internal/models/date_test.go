package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-15")
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2026, Month: time.February, Day: 15}, d)
	require.Equal(t, "2026-02-15", d.String())

	_, err = ParseDate("15/02/2026")
	require.Error(t, err)
	_, err = ParseDate("2026-02-30")
	require.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-01-09"}`), &payload))
	require.Equal(t, Date{Year: 2026, Month: time.January, Day: 9}, payload.Due)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"due":"2026-01-09"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2026-03-01"))
	require.Equal(t, "2026-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2026-03-02")))
	require.Equal(t, "2026-03-02", d.String())

	require.NoError(t, d.Scan(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2026-03-03", d.String())

	require.NoError(t, d.Scan("2026-03-04 00:00:00+00:00"))
	require.Equal(t, "2026-03-04", d.String())

	require.Error(t, d.Scan(42))

	v, err := Date{Year: 2026, Month: time.April, Day: 5}.Value()
	require.NoError(t, err)
	require.Equal(t, "2026-04-05", v)
}

func TestDate_AddDays(t *testing.T) {
	d := Date{Year: 2026, Month: time.January, Day: 30}
	require.Equal(t, "2026-02-06", d.AddDays(7).String())
	require.True(t, Date{}.IsZero())
	require.False(t, d.IsZero())
}

func TestTaskStatus(t *testing.T) {
	s, err := ParseTaskStatus("DOING")
	require.NoError(t, err)
	require.Equal(t, StatusDoing, s)

	_, err = ParseTaskStatus("doing")
	require.Error(t, err)
	_, err = ParseTaskStatus("")
	require.Error(t, err)

	require.True(t, PriorityHigh.IsValid())
	require.False(t, TaskPriority("URGENT").IsValid())
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local)
	require.Equal(t, "2026-01-01T10:00:00", FormatDateTime(ts))

	ts = ts.Add(1500 * time.Microsecond)
	require.Equal(t, "2026-01-01T10:00:00.0015", FormatDateTime(ts))
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(start, end string, available bool) TimeWindow {
	s, _ := ParseMinutes(start)
	e, _ := ParseMinutes(end)
	return TimeWindow{Start: s, End: e, Available: available}
}

func TestValidate_OK(t *testing.T) {
	var a WeeklyAvailability
	a[time.Monday] = []TimeWindow{
		window("14:00", "17:00", true),
		window("09:00", "12:00", true),
	}
	a[time.Friday] = []TimeWindow{window("08:30", "11:30", false)}

	assert.NoError(t, Validate(a))
}

func TestValidate_OverlappingWindows(t *testing.T) {
	var a WeeklyAvailability
	a[time.Monday] = []TimeWindow{
		window("09:00", "10:00", true),
		window("09:30", "11:00", true),
	}

	err := Validate(a)
	require.Error(t, err)
	var overlap *OverlappingWindowError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, time.Monday, overlap.Day)
	assert.Contains(t, err.Error(), "09:00-10:00")
	assert.Contains(t, err.Error(), "09:30-11:00")
}

func TestValidate_TouchingWindowsAllowed(t *testing.T) {
	var a WeeklyAvailability
	a[time.Tuesday] = []TimeWindow{
		window("09:00", "12:00", true),
		window("12:00", "15:00", true),
	}

	assert.NoError(t, Validate(a))
}

func TestValidate_InvertedWindow(t *testing.T) {
	var a WeeklyAvailability
	a[time.Wednesday] = []TimeWindow{{Start: 600, End: 540, Available: true}}

	err := Validate(a)
	require.Error(t, err)
	var inverted *InvertedWindowError
	require.ErrorAs(t, err, &inverted)
	assert.Equal(t, time.Wednesday, inverted.Day)
}

func TestValidate_ZeroDurationWindow(t *testing.T) {
	var a WeeklyAvailability
	a[time.Thursday] = []TimeWindow{{Start: 540, End: 540, Available: true}}

	var inverted *InvertedWindowError
	require.ErrorAs(t, Validate(a), &inverted)
}

func TestValidate_BlockedWindowsStillCountForOverlap(t *testing.T) {
	var a WeeklyAvailability
	a[time.Monday] = []TimeWindow{
		window("09:00", "12:00", false),
		window("11:00", "13:00", true),
	}

	var overlap *OverlappingWindowError
	require.ErrorAs(t, Validate(a), &overlap)
}

func TestNormalize_SortsAndIsIdempotent(t *testing.T) {
	var a WeeklyAvailability
	a[time.Monday] = []TimeWindow{
		window("14:00", "17:00", true),
		window("09:00", "12:00", true),
	}

	once := Normalize(a)
	require.Equal(t, window("09:00", "12:00", true), once[time.Monday][0])
	require.Equal(t, window("14:00", "17:00", true), once[time.Monday][1])

	assert.Equal(t, once, Normalize(once))

	// the input is not mutated
	assert.Equal(t, window("14:00", "17:00", true), a[time.Monday][0])
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(time.Monday, "09:00", "12:30", true)
	require.NoError(t, err)
	assert.Equal(t, 540, w.Start)
	assert.Equal(t, 750, w.End)
	assert.True(t, w.Available)

	_, err = NewWindow(time.Monday, "12:00", "09:00", true)
	var inverted *InvertedWindowError
	assert.ErrorAs(t, err, &inverted)

	_, err = NewWindow(time.Monday, "9am", "12:00", true)
	assert.Error(t, err)
}

func TestParseMinutes(t *testing.T) {
	m, err := ParseMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ParseMinutes("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	_, err = ParseMinutes("24:00")
	assert.Error(t, err)
	_, err = ParseMinutes("0900")
	assert.Error(t, err)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "09:00", FormatMinutes(540))
	assert.Equal(t, "00:05", FormatMinutes(5))
	assert.Equal(t, "23:59", FormatMinutes(1439))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = ParseWeekday("sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekday("mondayy")
	assert.Error(t, err)
}

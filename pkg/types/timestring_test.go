package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:00", "12:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, TimeString(s).Validate(), s)
	}

	invalid := []string{"", "24:00", "9:0", "12:60", "fél tíz", "12.30"}
	for _, s := range invalid {
		assert.ErrorIs(t, TimeString(s).Validate(), ErrInvalidTimeString, s)
	}
}

func TestTimeString_MinutesFromMidnight(t *testing.T) {
	minutes, err := TimeString("09:30").MinutesFromMidnight()
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	minutes, err = TimeString("00:00").MinutesFromMidnight()
	require.NoError(t, err)
	assert.Zero(t, minutes)

	_, err = TimeString("25:00").MinutesFromMidnight()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutes(t *testing.T) {
	result, err := TimeString("09:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), result)

	result, err = TimeString("10:30").AddMinutes(-45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:45"), result)

	// Переход через полночь не поддерживается
	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = TimeString("00:30").AddMinutes(-60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)

	date := time.Date(2026, 3, 4, 15, 45, 12, 0, time.UTC)

	result, err := TimeString("09:30").At(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 30, 0, 0, loc), result)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
}

func TestNewTimeString(t *testing.T) {
	assert.Equal(t, TimeString("14:05"), NewTimeString(time.Date(2026, 3, 4, 14, 5, 30, 0, time.UTC)))

	ts, err := NewTimeStringFromString("08:15")
	require.NoError(t, err)
	assert.Equal(t, TimeString("08:15"), ts)

	_, err = NewTimeStringFromString("08:65")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2024, 6, 3, 9, 30, 15, 123456789, loc)

	assert.Equal(t, "2024-06-03T07:30:15.123456Z", FormatTime(at))
}

func TestFormatTime_SortsLexicographically(t *testing.T) {
	earlier := FormatTime(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	later := FormatTime(time.Date(2024, 6, 3, 10, 0, 0, 500, time.UTC))

	assert.Less(t, earlier, later)
}

func TestParseTime(t *testing.T) {
	at := time.Date(2024, 6, 3, 7, 30, 15, 123456000, time.UTC)

	parsed, err := ParseTime(FormatTime(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestNullTime(t *testing.T) {
	assert.Nil(t, FormatNullTime(nil))

	at := time.Date(2024, 6, 3, 7, 30, 0, 0, time.UTC)
	stored, ok := FormatNullTime(&at).(string)
	require.True(t, ok)

	parsed, err := ParseNullTime(&stored)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, at.Equal(*parsed))

	parsed, err = ParseNullTime(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	empty := ""
	parsed, err = ParseNullTime(&empty)
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

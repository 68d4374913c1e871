package value_objects

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-07")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", d.String())
	assert.Equal(t, Thursday, d.Weekday())

	for _, bad := range []string{"", "2024-3-7", "07/03/2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-02-28")

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-21", d.AddDays(-7).String())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))

	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(MustParseDate("2024-02-28")))
	assert.Equal(t, -1, d.Compare(d.AddDays(1)))
	assert.Equal(t, 0, d.Compare(d))
	assert.True(t, d.Between(d, d))
	assert.False(t, d.Between(d.AddDays(1), d.AddDays(3)))
}

func TestDateOf_UsesInstantLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2024, 3, 10, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", DateOf(instant).String())
	assert.Equal(t, "2024-03-11", DateOf(instant.In(tokyo)).String())
}

func TestToday(t *testing.T) {
	clock := sharedDomain.FixedClock{T: time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)}

	assert.Equal(t, "2024-03-10", Today(clock, time.UTC).String())
	assert.Equal(t, "2024-03-11", Today(clock, time.FixedZone("CET", 3600)).String())
}

func TestDate_AcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2024-03-31 is 23 hours long in Berlin.
	lateOnShortDay := time.Date(2024, 3, 31, 23, 59, 0, 0, berlin)
	d := DateOf(lateOnShortDay)

	assert.Equal(t, "2024-03-31", d.String())
	assert.Equal(t, "2024-04-01", d.AddDays(1).String())

	start, end := WeekRange(d)
	assert.Equal(t, "2024-03-25", start.String())
	assert.Equal(t, "2024-03-31", end.String())
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		date       string
		start, end string
	}{
		{date: "2024-03-04", start: "2024-03-04", end: "2024-03-10"},
		{date: "2024-03-07", start: "2024-03-04", end: "2024-03-10"},
		{date: "2024-03-10", start: "2024-03-04", end: "2024-03-10"},
		{date: "2024-01-01", start: "2024-01-01", end: "2024-01-07"},
		{date: "2023-12-31", start: "2023-12-25", end: "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			start, end := WeekRange(MustParseDate(tt.date))
			assert.Equal(t, tt.start, start.String())
			assert.Equal(t, tt.end, end.String())
			assert.Equal(t, Monday, start.Weekday())
			assert.Equal(t, Sunday, end.Weekday())
		})
	}
}

func TestLastWeekRange(t *testing.T) {
	start, end := LastWeekRange(MustParseDate("2024-03-04"))
	assert.Equal(t, "2024-02-26", start.String())
	assert.Equal(t, "2024-03-03", end.String())

	start, end = LastWeekRange(MustParseDate("2024-03-10"))
	assert.Equal(t, "2024-02-26", start.String())
	assert.Equal(t, "2024-03-03", end.String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Due   Date `json:"due"`
		Empty Date `json:"empty"`
	}

	data, err := json.Marshal(payload{Due: MustParseDate("2024-05-01")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-05-01","empty":""}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Due.Equal(MustParseDate("2024-05-01")))
	assert.True(t, decoded.Empty.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &decoded))
}

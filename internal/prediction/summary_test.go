package prediction

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAge(t *testing.T) {
	tests := []struct {
		age      int
		expected AgeGroup
	}{
		{0, Child},
		{17, Child},
		{18, Adult},
		{60, Adult},
		{61, Senior},
		{100, Senior},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyAge(tt.age), "age %d", tt.age)
	}
}

func TestSummarize(t *testing.T) {
	rec := PassengerRecord{
		HomePlanet:   Mars,
		CryoSleep:    true,
		Destination:  Cancri55e,
		Age:          72,
		VIP:          true,
		RoomService:  1200,
		FoodCourt:    34,
		ShoppingMall: 0,
		Spa:          5000,
		VRDeck:       1,
	}

	s := Summarize(rec)
	assert.Equal(t, "Active (High impact)", s.CryoSleepStatus)
	assert.Equal(t, Senior, s.AgeGroup)
	assert.Equal(t, 6235, s.TotalSpending)
	assert.Equal(t, "6,235 credits", s.SpendingLabel)
	assert.Equal(t, "Yes", s.VIPStatus)

	s = Summarize(DefaultPassenger())
	assert.Equal(t, "Inactive", s.CryoSleepStatus)
	assert.Equal(t, Adult, s.AgeGroup)
	assert.Equal(t, "0 credits", s.SpendingLabel)
	assert.Equal(t, "No", s.VIPStatus)
}

func TestFormatCredits(t *testing.T) {
	assert.Equal(t, "999 credits", FormatCredits(999))
	assert.Equal(t, "1,000 credits", FormatCredits(1000))
	assert.Equal(t, "1,234,567 credits", FormatCredits(1234567))
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"42", 42},
		{"  42  ", 42},
		{"42abc", 42},
		{"3.9", 3},
		{"-7", -7},
		{"+8", 8},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"1e3", 1},
		{"99999999999999999999999", math.MaxInt},
		{"-99999999999999999999999", math.MinInt},
		{"99999999999999999999abc", math.MaxInt},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CoerceInt(tt.input), "input %q", tt.input)
	}
}

func TestFromForm(t *testing.T) {
	values := url.Values{
		"homePlanet":  {"Europa"},
		"destination": {"PSO J318.5-22"},
		"age":         {"twelve"},
		"cryoSleep":   {"on"},
		"roomService": {"150"},
		"spa":         {"x"},
	}

	rec := FromForm(values)
	assert.Equal(t, Europa, rec.HomePlanet)
	assert.Equal(t, PSOJ318522, rec.Destination)
	assert.Equal(t, 0, rec.Age)
	assert.True(t, rec.CryoSleep)
	assert.False(t, rec.VIP)
	assert.Equal(t, 150, rec.RoomService)
	assert.Equal(t, 0, rec.Spa)

	rec = FromForm(url.Values{"homePlanet": {"Venus"}})
	assert.Equal(t, DefaultPassenger(), rec)
}

func TestPassengerRecord_Set(t *testing.T) {
	rec := DefaultPassenger()

	require.NoError(t, rec.Set("homePlanet", "Mars"))
	require.NoError(t, rec.Set("destination", "55 Cancri e"))
	require.NoError(t, rec.Set("age", "61"))
	require.NoError(t, rec.Set("vip", "true"))
	require.NoError(t, rec.Set("vrDeck", "12 credits"))

	assert.Equal(t, Mars, rec.HomePlanet)
	assert.Equal(t, Cancri55e, rec.Destination)
	assert.Equal(t, 61, rec.Age)
	assert.True(t, rec.VIP)
	assert.Equal(t, 12, rec.VRDeck)

	err := rec.Set("destination", "Andromeda")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, Cancri55e, rec.Destination)

	err = rec.Set("cabin", "B/0/P")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestPassengerRecord_UnmarshalFillsDefaults(t *testing.T) {
	var rec PassengerRecord
	require.NoError(t, rec.UnmarshalJSON([]byte(`{"cryoSleep": true, "spa": 10}`)))

	assert.Equal(t, Earth, rec.HomePlanet)
	assert.Equal(t, Trappist1e, rec.Destination)
	assert.Equal(t, 25, rec.Age)
	assert.True(t, rec.CryoSleep)
	assert.Equal(t, 10, rec.Spa)
}

func TestPassengerRecord_Problems(t *testing.T) {
	assert.Empty(t, DefaultPassenger().Problems())

	rec := DefaultPassenger()
	rec.HomePlanet = "Venus"
	rec.Destination = ""
	rec.Spa = -5

	problems := rec.Problems()
	assert.Len(t, problems, 2)
	assert.Contains(t, problems["homePlanet"], "Venus")
	assert.Contains(t, problems, "destination")
}

package prediction

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// CoerceInt parses the leading integer of s and falls back to 0 for
// anything non-numeric, so form input never fails to score. Values beyond
// the int range saturate.
func CoerceInt(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		// out-of-range digits are still a huge number, not a missing one
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

// CoerceBool treats checkbox-style values as true
func CoerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes", "checked":
		return true
	default:
		return false
	}
}

// FromForm builds a record from submitted form fields. Missing or unknown
// enum values keep their defaults and numbers go through CoerceInt.
func FromForm(values url.Values) PassengerRecord {
	p := DefaultPassenger()

	if hp, err := ParseHomePlanet(values.Get("homePlanet")); err == nil {
		p.HomePlanet = hp
	}
	if d, err := ParseDestination(values.Get("destination")); err == nil {
		p.Destination = d
	}
	if values.Has("age") {
		p.Age = CoerceInt(values.Get("age"))
	}

	// unchecked boxes are absent from a form post
	p.CryoSleep = CoerceBool(values.Get("cryoSleep"))
	p.VIP = CoerceBool(values.Get("vip"))

	p.RoomService = CoerceInt(values.Get("roomService"))
	p.FoodCourt = CoerceInt(values.Get("foodCourt"))
	p.ShoppingMall = CoerceInt(values.Get("shoppingMall"))
	p.Spa = CoerceInt(values.Get("spa"))
	p.VRDeck = CoerceInt(values.Get("vrDeck"))

	return p
}

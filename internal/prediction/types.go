package prediction

import (
	"encoding/json"
	"fmt"
)

// HomePlanet is the passenger's planet of origin
type HomePlanet string

const (
	Earth  HomePlanet = "Earth"
	Europa HomePlanet = "Europa"
	Mars   HomePlanet = "Mars"
)

// Destination is the passenger's target exoplanet
type Destination string

const (
	Trappist1e Destination = "TRAPPIST-1e"
	Cancri55e  Destination = "55 Cancri e"
	PSOJ318522 Destination = "PSO J318.5-22"
)

// HomePlanets lists the selectable home planets in display order
var HomePlanets = []HomePlanet{Earth, Europa, Mars}

// Destinations lists the selectable destinations in display order
var Destinations = []Destination{Trappist1e, Cancri55e, PSOJ318522}

// ParseHomePlanet resolves a home planet label
func ParseHomePlanet(s string) (HomePlanet, error) {
	for _, hp := range HomePlanets {
		if string(hp) == s {
			return hp, nil
		}
	}
	return "", fmt.Errorf("unknown home planet %q", s)
}

// ParseDestination resolves a destination label
func ParseDestination(s string) (Destination, error) {
	for _, d := range Destinations {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown destination %q", s)
}

// PassengerRecord holds the attributes collected by the prediction form
type PassengerRecord struct {
	HomePlanet   HomePlanet  `json:"homePlanet"`
	CryoSleep    bool        `json:"cryoSleep"`
	Destination  Destination `json:"destination"`
	Age          int         `json:"age"`
	VIP          bool        `json:"vip"`
	RoomService  int         `json:"roomService"`
	FoodCourt    int         `json:"foodCourt"`
	ShoppingMall int         `json:"shoppingMall"`
	Spa          int         `json:"spa"`
	VRDeck       int         `json:"vrDeck"`
}

// DefaultPassenger returns the initial form values
func DefaultPassenger() PassengerRecord {
	return PassengerRecord{
		HomePlanet:  Earth,
		CryoSleep:   false,
		Destination: Trappist1e,
		Age:         25,
		VIP:         false,
	}
}

// UnmarshalJSON fills missing fields from DefaultPassenger so partial
// payloads score the same way the form would.
func (p *PassengerRecord) UnmarshalJSON(data []byte) error {
	type plain PassengerRecord
	rec := plain(DefaultPassenger())
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*p = PassengerRecord(rec)
	return nil
}

// PredictionResult is the outcome of the scoring heuristic
type PredictionResult struct {
	Transported bool `json:"transported"`
	Confidence  int  `json:"confidence"`
}

// Contribution is a single step's delta to the score
type Contribution struct {
	Name  string  `json:"name"`
	Delta float64 `json:"delta"`
}

// Breakdown exposes the intermediate values of the heuristic
type Breakdown struct {
	Contributions []Contribution `json:"contributions"`
	Score         float64        `json:"score"`
	Probability   float64        `json:"probability"`
	TotalSpending int            `json:"total_spending"`

	// per-mille fixed-point values the result is derived from
	scoreMille       int
	probabilityMille int
}

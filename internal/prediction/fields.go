package prediction

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("unknown passenger field")
	ErrInvalidValue = errors.New("invalid field value")
)

// FieldNames lists the settable form fields
var FieldNames = []string{
	"homePlanet", "cryoSleep", "destination", "age", "vip",
	"roomService", "foodCourt", "shoppingMall", "spa", "vrDeck",
}

// Set updates one field from its form representation
func (p *PassengerRecord) Set(field, value string) error {
	switch field {
	case "homePlanet":
		hp, err := ParseHomePlanet(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		p.HomePlanet = hp
	case "destination":
		d, err := ParseDestination(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		p.Destination = d
	case "cryoSleep":
		p.CryoSleep = CoerceBool(value)
	case "vip":
		p.VIP = CoerceBool(value)
	case "age":
		p.Age = CoerceInt(value)
	case "roomService":
		p.RoomService = CoerceInt(value)
	case "foodCourt":
		p.FoodCourt = CoerceInt(value)
	case "shoppingMall":
		p.ShoppingMall = CoerceInt(value)
	case "spa":
		p.Spa = CoerceInt(value)
	case "vrDeck":
		p.VRDeck = CoerceInt(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Problems reports enum fields holding labels outside their option lists.
// Numeric fields are never rejected; they score as given.
func (p PassengerRecord) Problems() map[string]string {
	problems := map[string]string{}
	if _, err := ParseHomePlanet(string(p.HomePlanet)); err != nil {
		problems["homePlanet"] = err.Error()
	}
	if _, err := ParseDestination(string(p.Destination)); err != nil {
		problems["destination"] = err.Error()
	}
	return problems
}

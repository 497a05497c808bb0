package prediction

import "math"

// Deltas are kept in per-mille so every step is exact and ties at the
// indifference point compare equal.
const (
	cryoSleepBonus    = 400
	awakePenalty      = -200
	ageBonus          = 150
	vipPenalty        = -100
	highSpendPenalty  = -200
	zeroSpendBonus    = 200
	europaBonus       = 100
	psoDestination    = 50
	indifferencePoint = 500
	minProbability    = 100
	maxProbability    = 900

	childAgeLimit     = 18
	seniorAgeLimit    = 60
	highSpendingLimit = 5000
)

// TotalSpending sums the five amenity spending fields, saturating at the
// int range instead of wrapping.
func TotalSpending(p PassengerRecord) int {
	total := 0
	for _, v := range []int{p.RoomService, p.FoodCourt, p.ShoppingMall, p.Spa, p.VRDeck} {
		total = addSaturating(total, v)
	}
	return total
}

func addSaturating(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// Score runs the additive heuristic and returns every intermediate value.
// Each step contributes independently; no step short-circuits another.
func Score(p PassengerRecord) Breakdown {
	var score int
	contribs := make([]Contribution, 0, 6)
	add := func(name string, delta int) {
		score += delta
		contribs = append(contribs, Contribution{Name: name, Delta: fromMille(delta)})
	}

	if p.CryoSleep {
		add("cryo_sleep", cryoSleepBonus)
	} else {
		add("awake", awakePenalty)
	}

	if p.Age < childAgeLimit || p.Age > seniorAgeLimit {
		add("age", ageBonus)
	}

	if p.VIP {
		add("vip", vipPenalty)
	}

	total := TotalSpending(p)
	if total > highSpendingLimit {
		add("high_spending", highSpendPenalty)
	} else if total == 0 {
		add("zero_spending", zeroSpendBonus)
	}

	if p.HomePlanet == Europa {
		add("home_planet_europa", europaBonus)
	}

	if p.Destination == PSOJ318522 {
		add("destination_pso", psoDestination)
	}

	prob := clamp(indifferencePoint+score, minProbability, maxProbability)

	return Breakdown{
		Contributions:    contribs,
		Score:            fromMille(score),
		Probability:      fromMille(prob),
		TotalSpending:    total,
		scoreMille:       score,
		probabilityMille: prob,
	}
}

// Predict maps a passenger to a transported outcome and a confidence
// percentage in [50, 90]. It is pure and total over its input.
func Predict(p PassengerRecord) PredictionResult {
	return Score(p).Result()
}

// Result derives the prediction from a breakdown. A probability exactly at
// the indifference point is not transported.
func (b Breakdown) Result() PredictionResult {
	transported := b.probabilityMille > indifferencePoint

	distance := b.probabilityMille
	if !transported {
		distance = 1000 - b.probabilityMille
	}

	return PredictionResult{
		Transported: transported,
		Confidence:  roundMilleToPercent(distance),
	}
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func fromMille(v int) float64 {
	return float64(v) / 1000
}

// roundMilleToPercent rounds half up, matching the display rounding.
func roundMilleToPercent(v int) int {
	return (v + 5) / 10
}

package patient

import "math"

// EatRate caps ingestion at 5 g/min of CHO regardless of how much is
// announced at once: a meal is eaten gradually, not as an instantaneous
// bolus.
const EatRate = 5.0

// mealBuffer converts cumulative meal announcements into a bounded
// per-minute ingestion rate. Announcing 0 keeps draining any backlog.
type mealBuffer struct {
	planned float64 // grams still queued to be eaten
}

// announce adds the announced grams to the backlog and returns the amount
// to eat this minute.
func (m *mealBuffer) announce(meal float64) float64 {
	m.planned += meal
	if m.planned <= 0 {
		return 0
	}
	toEat := math.Min(EatRate, m.planned)
	m.planned = math.Max(0, m.planned-toEat)
	return toEat
}

func (m *mealBuffer) reset() {
	m.planned = 0
}

package patient

// Action is one sample instant's exogenous input: announced carbohydrate
// (g/min) and insulin infusion rate (U/min). The stepping loop replaces
// CHO with the amount actually ingested this step before it reaches the
// model.
type Action struct {
	CHO     float64
	Insulin float64
}

// Observation is the modeled continuous-glucose-monitor reading:
// subcutaneous glucose concentration in mg/dL.
type Observation struct {
	Gsub float64
}

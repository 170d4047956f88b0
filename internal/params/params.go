// Package params carries the per-patient physiological parameter sets
// consumed by the patient model, and the lookup machinery that resolves
// a patient id or name to one.
package params

// NumState is the dimension of the patient state vector.
const NumState = 18

// Set is one patient's named bundle of physiological constants. All values
// are supplied at construction and never mutated; a Set may be shared
// read-only across simulator instances.
type Set struct {
	Name string

	// InitState is the default initial state vector (18 components).
	InitState []float64

	BW   float64 // body weight, kg
	U2ss float64 // steady-state insulin delivery, pmol/kg/min

	// gastric emptying and absorption
	Kmax float64
	Kmin float64
	Kabs float64
	B    float64
	D    float64
	F    float64

	// glucose kinetics
	K1  float64
	K2  float64
	Vg  float64 // glucose volume of distribution, dL/kg
	Ke1 float64 // renal excretion rate
	Ke2 float64 // renal excretion threshold, mg/kg

	// endogenous glucose production
	Kp1      float64
	Kp2      float64
	Kp3      float64
	Kcounter float64 // glucagon action gain
	Fsnc     float64 // insulin-independent utilization, mg/kg/min

	// glucose utilization
	Vm0 float64
	Vmx float64
	Km0 float64
	P2u float64

	// insulin kinetics
	M1  float64
	M2  float64
	M30 float64
	M4  float64
	Ka1 float64
	Ka2 float64
	Kd  float64
	Ki  float64
	Vi  float64 // insulin volume of distribution, L/kg
	Ib  float64 // basal plasma insulin, pmol/L

	// subcutaneous glucose sensing
	Ksc float64

	// glycemic thresholds and risk shaping
	Gb  float64 // basal glycemia, mg/dL
	Gth float64 // hypoglycemic threshold, mg/dL
	R1  float64 // risk log exponent
	R3  float64 // risk gain on utilization

	// glucagon kinetics and secretion
	R2    float64 // secretion relaxation rate
	KGSRd float64 // dynamic secretion gain (falling glucose)
	KGSRs float64 // static secretion gain
	SRb   float64 // basal secretion
	K01g  float64 // plasma glucagon clearance
	KXGn  float64 // glucagon action rate
	Gnb   float64 // basal plasma glucagon
	Ith   float64 // insulin threshold for secretion branch

	// subcutaneous glucagon kinetics
	SQglucK1  float64
	SQglucKc1 float64
	SQglucK2  float64
}

// Basal returns the insulin infusion rate (U/min) that holds the patient
// at steady state.
func (s *Set) Basal() float64 {
	return s.U2ss * s.BW / 6000
}

// Lookup resolves a patient key to a parameter set. Ids 1-10 are
// adolescents, 11-20 adults, 21-30 children; the mapping is documented,
// not validated beyond table bounds.
type Lookup interface {
	ByID(id int) (*Set, error)
	ByName(name string) (*Set, error)
}

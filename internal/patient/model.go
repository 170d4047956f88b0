package patient

import (
	"math"

	"github.com/san-kum/glucosim/internal/dynamo"
	"github.com/san-kum/glucosim/internal/params"
)

// State vector layout.
const (
	sStomachSolid  = 0  // stomach solid glucose, mg
	sStomachLiquid = 1  // stomach liquid glucose, mg
	sGut           = 2  // intestinal glucose, mg
	sPlasmaGlucose = 3  // plasma glucose, mg/kg
	sTissueGlucose = 4  // remote glucose compartment, mg/kg
	sPlasmaInsulin = 5  // plasma insulin, pmol/kg
	sInsulinAction = 6  // insulin action on utilization
	sInsulinDelay1 = 7  // insulin action on production, first delay
	sInsulinDelay2 = 8  // insulin action on production, second delay
	sLiverInsulin  = 9  // liver insulin, pmol/kg
	sSubqInsulin1  = 10 // subcutaneous insulin, first compartment
	sSubqInsulin2  = 11 // subcutaneous insulin, second compartment
	sSubqGlucose   = 12 // subcutaneous glucose, mg/kg
	sGlucagon      = 13 // plasma glucagon, ng/L
	sEGPDrive      = 14 // glucagon action on glucose production
	sSecretion     = 15 // glucagon secretion state
	sSubqGlucagon1 = 16 // subcutaneous glucagon, first compartment
	sSubqGlucagon2 = 17 // subcutaneous glucagon, second compartment
)

// mealHistory is the integrator-history feedback the right-hand side needs
// but cannot recover from the state vector: the stomach content snapshot at
// the start of the current eating episode and the grams ingested since.
// It is owned by the stepping loop and passed in by value.
type mealHistory struct {
	lastQsto      float64
	lastFoodtaken float64
}

// Dbar is the total glucose dose driving the gastric emptying rate.
func (h mealHistory) Dbar() float64 {
	return h.lastQsto + h.lastFoodtaken
}

// Model is the 18-state glucose/insulin/glucagon kinetics right-hand side.
// Derive is pure given (x, u, t), the parameter set and the current meal
// history; the model holds no trajectory state of its own.
type Model struct {
	params *params.Set
	hist   mealHistory
}

func NewModel(set *params.Set) *Model {
	return &Model{params: set}
}

func (m *Model) StateDim() int   { return params.NumState }
func (m *Model) ControlDim() int { return 2 }

func (m *Model) setMealHistory(lastQsto, lastFoodtaken float64) {
	m.hist = mealHistory{lastQsto: lastQsto, lastFoodtaken: lastFoodtaken}
}

// gutRate computes the gastric emptying constant kgut: a smooth tanh
// interpolation between kmin and kmax driven by the stomach content qsto
// relative to fractions of the total dose. At Dbar = 0 it is exactly kmax;
// the division below only happens on the positive branch.
func gutRate(qsto, dbar float64, p *params.Set) float64 {
	if dbar <= 0 {
		return p.Kmax
	}
	aa := 5 / 2 / (1 - p.B) / dbar
	cc := 5 / 2 / p.D / dbar
	return p.Kmin + (p.Kmax-p.Kmin)/2*(math.Tanh(aa*(qsto-p.B*dbar))-math.Tanh(cc*(qsto-p.D*dbar))+2)
}

// Derive evaluates dX/dt. u is {CHO g/min already bounded by the eating
// rate, insulin U/min}. Compartments that are physically non-negative have
// their derivative zeroed whenever the current value is below zero, so the
// dynamics can park a component at the boundary but never push it further
// negative.
func (m *Model) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	p := m.params
	dxdt := make(dynamo.State, params.NumState)

	d := u[0] * 1000                // g -> mg
	insulin := u[1] * 6000 / p.BW   // U/min -> pmol/kg/min

	qsto := x[sStomachSolid] + x[sStomachLiquid]
	kgut := gutRate(qsto, m.hist.Dbar(), p)

	// stomach solid
	dxdt[0] = -p.Kmax*x[0] + d

	// stomach liquid
	dxdt[1] = p.Kmax*x[0] - x[1]*kgut

	// intestine
	dxdt[2] = kgut*x[1] - p.Kabs*x[2]

	// rate of glucose appearance
	rat := p.F * p.Kabs * x[2] / p.BW
	// endogenous glucose production
	egpt := p.Kp1 - p.Kp2*x[3] - p.Kp3*x[8] + p.Kcounter*x[14]
	// insulin-independent utilization
	uiit := p.Fsnc

	// renal excretion, hard threshold
	et := 0.0
	if x[3] > p.Ke2 {
		et = p.Ke1 * (x[3] - p.Ke2)
	}

	// plasma glucose kinetics
	dxdt[3] = math.Max(egpt, 0) + rat - uiit - et - p.K1*x[3] + p.K2*x[4]
	dxdt[3] = nonneg(x[3]) * dxdt[3]
	gt := x[3] / p.Vg

	// hypoglycemia risk; max(Gt, Gth) inside the log keeps the argument
	// positive below threshold
	var fg float64
	if gt < p.Gth {
		fg = math.Log(math.Pow(p.Gth/p.Gb, p.R1))
	} else {
		fg = math.Log(math.Pow(gt/p.Gb, p.R1))
	}
	risk := 0.0
	if gt <= p.Gb {
		risk = 10 * fg * fg
	}

	// insulin-dependent utilization
	vmt := p.Vm0 + p.Vmx*x[6]
	kmt := p.Km0
	uidt := vmt * (1 + p.R3*risk) * x[4] / (kmt + x[4])
	dxdt[4] = -uidt + p.K1*x[3] - p.K2*x[4]
	dxdt[4] = nonneg(x[4]) * dxdt[4]

	// plasma insulin kinetics
	dxdt[5] = -(p.M2+p.M4)*x[5] + p.M1*x[9] + p.Ka1*x[10] + p.Ka2*x[11]
	it := x[5] / p.Vi
	dxdt[5] = nonneg(x[5]) * dxdt[5]

	// insulin action on glucose utilization
	dxdt[6] = -p.P2u*x[6] + p.P2u*(it-p.Ib)

	// insulin action on production, two delays
	dxdt[7] = -p.Ki * (x[7] - it)
	dxdt[8] = -p.Ki * (x[8] - x[7])

	// liver insulin
	dxdt[9] = -(p.M1+p.M30)*x[9] + p.M2*x[5]
	dxdt[9] = nonneg(x[9]) * dxdt[9]

	// subcutaneous insulin kinetics
	dxdt[10] = insulin - (p.Ka1+p.Kd)*x[10]
	dxdt[10] = nonneg(x[10]) * dxdt[10]

	dxdt[11] = p.Kd*x[10] - p.Ka2*x[11]
	dxdt[11] = nonneg(x[11]) * dxdt[11]

	// subcutaneous glucose
	dxdt[12] = -p.Ksc*x[12] + p.Ksc*x[3]
	dxdt[12] = nonneg(x[12]) * dxdt[12]

	// glucagon kinetics; dynamic secretion rises when glucose is falling
	srd := p.KGSRd * math.Max(-dxdt[3]/p.Vg, 0)
	srt := x[15] + srd
	dxdt[13] = -p.K01g*x[13] + srt
	dxdt[13] = nonneg(x[13]) * dxdt[13]

	// glucagon action on endogenous glucose production
	dxdt[14] = -p.KXGn*x[14] + p.KXGn*math.Max(x[13]-p.Gnb, 0)

	// static secretion, branch on plasma insulin vs threshold
	if it >= p.Ith {
		dxdt[15] = -p.R2 * (x[15] - math.Max(p.KGSRs*(p.Gth-gt)/(it-p.Ith+1)+p.SRb, 0))
	} else {
		dxdt[15] = -p.R2 * (x[15] - math.Max(p.KGSRs*(p.Gth-gt)+p.SRb, 0))
	}
	dxdt[15] = nonneg(x[15]) * dxdt[15]

	// subcutaneous glucagon kinetics
	dxdt[16] = -(p.SQglucK1 + p.SQglucKc1) * x[16]
	dxdt[16] = nonneg(x[16]) * dxdt[16]
	dxdt[17] = p.SQglucK1*x[16] - p.SQglucK2*x[17]
	dxdt[17] = nonneg(x[17]) * dxdt[17]

	return dxdt
}

func nonneg(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return 0
}

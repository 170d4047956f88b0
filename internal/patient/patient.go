// Package patient implements the continuous-time physiology of a single
// simulated person with Type-1 diabetes: an 18-state glucose/insulin/
// glucagon kinetics model driven one sample period at a time by meal and
// insulin actions.
//
// A Patient is not safe for concurrent use; callers must serialize Step
// calls on one instance. Independent instances share no mutable state.
package patient

import (
	"fmt"

	"github.com/san-kum/glucosim/internal/dynamo"
	"github.com/san-kum/glucosim/internal/integrators"
	"github.com/san-kum/glucosim/internal/params"
)

// SampleTime is the fixed interval between Step calls, in minutes.
const SampleTime = 1.0

// Patient owns one trajectory of the glucose kinetics model: the solver
// state, the meal announcement backlog and the eating-episode bookkeeping
// that feeds back into the model's right-hand side.
type Patient struct {
	set       *params.Set
	initState dynamo.State
	t0        float64

	model  *Model
	solver *integrators.Solver
	opts   integrators.Options

	meal          mealBuffer
	lastQsto      float64
	lastFoodtaken float64
	lastAction    Action
	isEating      bool
}

// New builds a patient from a parameter set. initState may be nil to use
// the set's built-in initial state; t0 is the simulation start time in
// minutes.
func New(set *params.Set, initState dynamo.State, t0 float64) (*Patient, error) {
	if set == nil {
		return nil, fmt.Errorf("patient: nil parameter set")
	}
	if initState == nil {
		initState = dynamo.State(set.InitState).Clone()
	}
	if len(initState) != params.NumState {
		return nil, fmt.Errorf("patient: initial state has %d components, want %d: %w",
			len(initState), params.NumState, dynamo.ErrDimensionMismatch)
	}
	p := &Patient{
		set:       set,
		initState: initState.Clone(),
		t0:        t0,
		opts:      integrators.DefaultOptions(),
	}
	p.Reset()
	return p, nil
}

// FromID builds a patient by table id (1-10 adolescent, 11-20 adult,
// 21-30 child).
func FromID(lookup params.Lookup, id int) (*Patient, error) {
	set, err := lookup.ByID(id)
	if err != nil {
		return nil, err
	}
	return New(set, nil, 0)
}

// FromName builds a patient by name, e.g. "adolescent#001".
func FromName(lookup params.Lookup, name string) (*Patient, error) {
	set, err := lookup.ByName(name)
	if err != nil {
		return nil, err
	}
	return New(set, nil, 0)
}

// Reset returns the patient to its initial state: fresh solver at (t0,
// initState), empty meal backlog, not eating, zero previous action.
func (p *Patient) Reset() {
	p.lastQsto = p.initState[sStomachSolid] + p.initState[sStomachLiquid]
	p.lastFoodtaken = 0
	p.isEating = false
	p.lastAction = Action{}
	p.meal.reset()

	p.model = NewModel(p.set)
	p.solver = integrators.NewSolver(p.model, p.initState, p.t0, p.opts)
}

// Step advances the patient by one sample period under the given action.
// The announced CHO is first converted to this minute's bounded ingestion
// amount; the eating-episode bookkeeping then updates the meal-history
// feedback the model needs. An integration failure is fatal for the
// trajectory and is returned without advancing observable state.
func (p *Patient) Step(action Action) error {
	toEat := p.meal.announce(action.CHO)
	action.CHO = toEat

	// eating episode starts: snapshot stomach content, restart the counter
	if action.CHO > 0 && p.lastAction.CHO <= 0 {
		x := p.solver.State()
		p.lastQsto = x[sStomachSolid] + x[sStomachLiquid]
		p.lastFoodtaken = 0
		p.isEating = true
	}

	if p.isEating {
		p.lastFoodtaken += action.CHO
	}

	// eating episode ends
	if action.CHO <= 0 && p.lastAction.CHO > 0 {
		p.isEating = false
	}

	p.lastAction = action

	p.model.setMealHistory(p.lastQsto, p.lastFoodtaken)
	u := dynamo.Control{action.CHO, action.Insulin}
	if err := p.solver.Integrate(p.solver.Time()+SampleTime, u); err != nil {
		return fmt.Errorf("patient %s: %w", p.set.Name, err)
	}
	return nil
}

// Observation returns the subcutaneous glucose concentration in mg/dL.
func (p *Patient) Observation() Observation {
	gm := p.solver.State()[sSubqGlucose]
	return Observation{Gsub: gm / p.set.Vg}
}

// State returns a copy of the current 18-component state vector.
func (p *Patient) State() dynamo.State {
	return p.solver.State()
}

// Time returns the current simulated time in minutes.
func (p *Patient) Time() float64 {
	return p.solver.Time()
}

// SampleTime returns the fixed sample period in minutes.
func (p *Patient) SampleTime() float64 {
	return SampleTime
}

func (p *Patient) Name() string { return p.set.Name }

// Params returns the read-only parameter set.
func (p *Patient) Params() *params.Set { return p.set }

// IsEating reports whether an eating episode is in progress.
func (p *Patient) IsEating() bool { return p.isEating }

// PlannedMeal returns the grams of announced carbohydrate still queued.
func (p *Patient) PlannedMeal() float64 { return p.meal.planned }

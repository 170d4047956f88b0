package controllers

import "github.com/san-kum/glucosim/internal/patient"

// PID corrects around a basal rate from the glucose error against a
// target (mg/dL). Output is an infusion rate and never goes negative:
// insulin cannot be withdrawn once delivered.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64

	basal    float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target, basal float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		basal:  basal,
		first:  true,
	}
}

func (p *PID) Rate(obs patient.Observation, announcedCHO, t float64) float64 {
	// sign convention: glucose above target demands more insulin
	err := obs.Gsub - p.Target

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return clampRate(p.basal + p.Kp*err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return clampRate(p.basal + p.Kp*err)
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	return clampRate(p.basal + p.Kp*err + p.Ki*p.integral + p.Kd*derivative)
}

func clampRate(u float64) float64 {
	if u < 0 {
		return 0
	}
	return u
}

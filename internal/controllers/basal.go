// Package controllers supplies insulin delivery policies for the
// closed-loop runner. The patient plant itself is controller-agnostic;
// these are the external collaborators that decide each minute's action.
package controllers

import "github.com/san-kum/glucosim/internal/patient"

// Basal delivers a constant infusion rate, U/min. With the patient's
// steady-state basal it holds glycemia flat in the absence of meals.
type Basal struct {
	rate float64
}

func NewBasal(rate float64) *Basal {
	return &Basal{rate: rate}
}

func (b *Basal) Rate(obs patient.Observation, announcedCHO, t float64) float64 {
	return b.rate
}

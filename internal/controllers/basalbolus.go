package controllers

import "github.com/san-kum/glucosim/internal/patient"

// BasalBolus delivers a constant basal plus a meal bolus computed from the
// carb ratio (grams of CHO covered per unit of insulin). The bolus is
// spread over the announcement minute as an infusion rate.
type BasalBolus struct {
	basal     float64
	carbRatio float64
}

func NewBasalBolus(basal, carbRatio float64) *BasalBolus {
	return &BasalBolus{basal: basal, carbRatio: carbRatio}
}

func (c *BasalBolus) Rate(obs patient.Observation, announcedCHO, t float64) float64 {
	rate := c.basal
	if announcedCHO > 0 && c.carbRatio > 0 {
		rate += announcedCHO / c.carbRatio / patient.SampleTime
	}
	return rate
}

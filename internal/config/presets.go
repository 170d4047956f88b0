package config

// Presets are ready-made scenarios keyed by name.
var Presets = map[string]*Config{
	"basal-hold": {
		Patient: "adolescent#001", Controller: "basal", Duration: 720,
		ControllerParams: ControllerConfig{CarbRatio: DefaultCarbRatio},
	},
	"single-meal": {
		Patient: "adolescent#001", Controller: "basal-bolus", Duration: 480,
		Meals: []MealConfig{{At: 60, Carbs: 45}},
		ControllerParams: ControllerConfig{
			CarbRatio: DefaultCarbRatio,
		},
	},
	"three-meals": {
		Patient: "adult#001", Controller: "basal-bolus", Duration: 1440,
		Meals: []MealConfig{
			{At: 420, Carbs: 45},
			{At: 720, Carbs: 70},
			{At: 1080, Carbs: 80},
		},
		ControllerParams: ControllerConfig{
			CarbRatio: DefaultCarbRatio,
		},
	},
	"pid-day": {
		Patient: "adult#001", Controller: "pid", Duration: 1440,
		Meals: []MealConfig{
			{At: 420, Carbs: 45},
			{At: 720, Carbs: 70},
			{At: 1080, Carbs: 80},
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd, Target: DefaultTarget,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

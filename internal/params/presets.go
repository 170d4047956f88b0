package params

import "fmt"

// Built-in parameter sets, one representative patient per demographic
// group. Each is a self-consistent steady state: holding CHO=0 and
// insulin=Basal() keeps the plant at its initial state. The full 30-patient
// population lives in an external table (see LoadTable).
var presets = map[string]Set{
	"adolescent#001": {
		Name: "adolescent#001",
		InitState: []float64{
			0, 0, 0, 233.030208, 162.739421, 4.67077732, 0, 95.5052003,
			95.5052003, 3.1588276, 57.9035223, 93.1491446, 233.030208,
			35.7333333, 0, 10.72, 0, 0,
		},
		BW: 68.706, U2ss: 1.2169757,
		Kmax: 0.04339, Kmin: 0.006147, Kabs: 0.08906, B: 0.7003, D: 0.2126, F: 0.9,
		K1: 0.057252, K2: 0.067738, Vg: 1.6818, Ke1: 0.0005, Ke2: 339,
		Kp1: 10.97238341, Kp2: 0.023318, Kp3: 0.023253, Kcounter: 0.0155, Fsnc: 1,
		Vm0: 5.92854, Vmx: 0.031319, Km0: 253.52, P2u: 0.021344,
		M1: 0.15221, M2: 0.25963, M30: 0.23169, M4: 0.10386,
		Ka1: 0.0025173, Ka2: 0.0115, Kd: 0.0185, Ki: 0.0088838,
		Vi: 0.048906, Ib: 95.50520025, Ksc: 0.056,
		Gb: 138.56, Gth: 60, R1: 0.8, R2: 0.05, R3: 0.1,
		KGSRd: 10, KGSRs: 0.5, SRb: 50, K01g: 0.3, KXGn: 0.05,
		Gnb: 35.73333333, Ith: 100,
		SQglucK1: 0.0164, SQglucKc1: 0.0146, SQglucK2: 0.014,
	},
	"adult#001": {
		Name: "adult#001",
		InitState: []float64{
			0, 0, 0, 285.211584, 197.573573, 5.21970748, 0, 106.729389,
			106.729389, 3.53006682, 64.7085972, 104.096439, 285.211584,
			147.493093, 0, 44.2479279, 0, 0,
		},
		BW: 102.32, U2ss: 1.36,
		Kmax: 0.046122, Kmin: 0.0083338, Kabs: 0.094542, B: 0.7003, D: 0.2126, F: 0.9,
		K1: 0.065, K2: 0.079, Vg: 1.9152, Ke1: 0.0005, Ke2: 339,
		Kp1: 13.06278285, Kp2: 0.023318, Kp3: 0.023253, Kcounter: 0.0155, Fsnc: 1,
		Vm0: 6.8, Vmx: 0.031319, Km0: 260.89, P2u: 0.021344,
		M1: 0.15221, M2: 0.25963, M30: 0.23169, M4: 0.10386,
		Ka1: 0.0025173, Ka2: 0.0115, Kd: 0.0185, Ki: 0.0088838,
		Vi: 0.048906, Ib: 106.7293886, Ksc: 0.056,
		Gb: 148.92, Gth: 60, R1: 0.8, R2: 0.05, R3: 0.1,
		KGSRd: 10, KGSRs: 0.5, SRb: 50, K01g: 0.3, KXGn: 0.05,
		Gnb: 147.4930931, Ith: 100,
		SQglucK1: 0.0164, SQglucKc1: 0.0146, SQglucK2: 0.014,
	},
	"child#001": {
		Name: "child#001",
		InitState: []float64{
			0, 0, 0, 204.476328, 136.672742, 4.22182222, 0, 86.3252407,
			86.3252407, 2.8552011, 52.337836, 84.1956492, 204.476328,
			38.4666667, 0, 11.54, 0, 0,
		},
		BW: 34.556, U2ss: 1.1,
		Kmax: 0.051542, Kmin: 0.010437, Kabs: 0.080061, B: 0.7003, D: 0.2126, F: 0.9,
		K1: 0.05, K2: 0.061, Vg: 1.4934, Ke1: 0.0005, Ke2: 339,
		Kp1: 9.662078947, Kp2: 0.023318, Kp3: 0.023253, Kcounter: 0.0155, Fsnc: 1,
		Vm0: 5.2, Vmx: 0.031319, Km0: 240, P2u: 0.021344,
		M1: 0.15221, M2: 0.25963, M30: 0.23169, M4: 0.10386,
		Ka1: 0.0025173, Ka2: 0.0115, Kd: 0.0185, Ki: 0.0088838,
		Vi: 0.048906, Ib: 86.32524074, Ksc: 0.056,
		Gb: 136.92, Gth: 60, R1: 0.8, R2: 0.05, R3: 0.1,
		KGSRd: 10, KGSRs: 0.5, SRb: 50, K01g: 0.3, KXGn: 0.05,
		Gnb: 38.46666667, Ith: 100,
		SQglucK1: 0.0164, SQglucKc1: 0.0146, SQglucK2: 0.014,
	},
}

// preset ids follow the table convention: 1-10 adolescents, 11-20 adults,
// 21-30 children.
var presetIDs = map[int]string{
	1:  "adolescent#001",
	11: "adult#001",
	21: "child#001",
}

// Preset returns a copy of a built-in parameter set.
func Preset(name string) (*Set, error) {
	s, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset patient %q", name)
	}
	cp := s
	cp.InitState = append([]float64(nil), s.InitState...)
	return &cp, nil
}

// PresetNames lists the built-in patients.
func PresetNames() []string {
	return []string{"adolescent#001", "adult#001", "child#001"}
}

// PresetLookup resolves ids and names against the built-in sets.
type PresetLookup struct{}

func (PresetLookup) ByID(id int) (*Set, error) {
	name, ok := presetIDs[id]
	if !ok {
		return nil, fmt.Errorf("patient id %d has no built-in preset", id)
	}
	return Preset(name)
}

func (PresetLookup) ByName(name string) (*Set, error) {
	return Preset(name)
}

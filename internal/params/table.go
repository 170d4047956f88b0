package params

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Table is a read-only patient parameter table loaded from a CSV file,
// one row per patient. Column layout is a fixed external contract: Name,
// x0_1..x0_18, then the parameter columns by name.
type Table struct {
	rows   []*Set
	byName map[string]*Set
}

// LoadTable reads a parameter table from a CSV file.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable parses a parameter table in the vpatient CSV format.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read parameter table: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("parameter table has no patient rows")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}

	t := &Table{byName: make(map[string]*Set)}
	for i, rec := range records[1:] {
		set, err := parseRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("parameter table row %d: %w", i+1, err)
		}
		t.rows = append(t.rows, set)
		t.byName[set.Name] = set
	}
	return t, nil
}

// ByID returns the parameter set for patient id (1-based row index).
func (t *Table) ByID(id int) (*Set, error) {
	if id < 1 || id > len(t.rows) {
		return nil, fmt.Errorf("patient id %d out of range 1..%d", id, len(t.rows))
	}
	return t.rows[id-1], nil
}

// ByName returns the parameter set for a named patient.
func (t *Table) ByName(name string) (*Set, error) {
	set, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown patient %q", name)
	}
	return set, nil
}

// Names lists the patients in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rows))
	for i, s := range t.rows {
		names[i] = s.Name
	}
	return names
}

func (t *Table) Len() int { return len(t.rows) }

type rowParser struct {
	cols map[string]int
	rec  []string
	err  error
}

func (p *rowParser) field(name string) float64 {
	if p.err != nil {
		return 0
	}
	idx, ok := p.cols[name]
	if !ok {
		p.err = fmt.Errorf("missing column %q", name)
		return 0
	}
	if idx >= len(p.rec) {
		p.err = fmt.Errorf("short row, no value for %q", name)
		return 0
	}
	v, err := strconv.ParseFloat(p.rec[idx], 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %w", name, err)
		return 0
	}
	return v
}

func parseRow(cols map[string]int, rec []string) (*Set, error) {
	p := &rowParser{cols: cols, rec: rec}

	nameIdx, ok := cols["Name"]
	if !ok || nameIdx >= len(rec) {
		return nil, fmt.Errorf("missing Name column")
	}

	s := &Set{Name: rec[nameIdx]}

	s.InitState = make([]float64, NumState)
	for i := 0; i < NumState; i++ {
		s.InitState[i] = p.field(fmt.Sprintf("x0_%d", i+1))
	}

	s.BW = p.field("BW")
	s.U2ss = p.field("u2ss")
	s.Kmax = p.field("kmax")
	s.Kmin = p.field("kmin")
	s.Kabs = p.field("kabs")
	s.B = p.field("b")
	s.D = p.field("d")
	s.F = p.field("f")
	s.K1 = p.field("k1")
	s.K2 = p.field("k2")
	s.Vg = p.field("Vg")
	s.Ke1 = p.field("ke1")
	s.Ke2 = p.field("ke2")
	s.Kp1 = p.field("kp1")
	s.Kp2 = p.field("kp2")
	s.Kp3 = p.field("kp3")
	s.Kcounter = p.field("kcounter")
	s.Fsnc = p.field("Fsnc")
	s.Vm0 = p.field("Vm0")
	s.Vmx = p.field("Vmx")
	s.Km0 = p.field("Km0")
	s.P2u = p.field("p2u")
	s.M1 = p.field("m1")
	s.M2 = p.field("m2")
	s.M30 = p.field("m30")
	s.M4 = p.field("m4")
	s.Ka1 = p.field("ka1")
	s.Ka2 = p.field("ka2")
	s.Kd = p.field("kd")
	s.Ki = p.field("ki")
	s.Vi = p.field("Vi")
	s.Ib = p.field("Ib")
	s.Ksc = p.field("ksc")
	s.Gb = p.field("Gb")
	s.Gth = p.field("Gth")
	s.R1 = p.field("r1")
	s.R2 = p.field("r2")
	s.R3 = p.field("r3")
	s.KGSRd = p.field("kGSRd")
	s.KGSRs = p.field("kGSRs")
	s.SRb = p.field("SRb")
	s.K01g = p.field("k01g")
	s.KXGn = p.field("kXGn")
	s.Gnb = p.field("Gnb")
	s.Ith = p.field("Ith")
	s.SQglucK1 = p.field("SQgluc_k1")
	s.SQglucKc1 = p.field("SQgluc_kc1")
	s.SQglucK2 = p.field("SQgluc_k2")

	if p.err != nil {
		return nil, p.err
	}
	return s, nil
}

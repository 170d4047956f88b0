package patient_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glucosim/internal/params"
	"github.com/san-kum/glucosim/internal/patient"
)

// the clamp-protected compartments; the remaining components (insulin
// action deviations, glucagon drive) may legitimately go negative
var protected = []int{0, 1, 2, 3, 4, 5, 9, 10, 11, 12, 13, 15, 16, 17}

var _ = Describe("Patient", func() {
	var (
		set *params.Set
		p   *patient.Patient
	)

	BeforeEach(func() {
		var err error
		set, err = params.Preset("adolescent#001")
		Expect(err).NotTo(HaveOccurred())
		p, err = patient.New(set, nil, 0)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("holding basal insulin with no meals", func() {
		It("stays at steady state for 100 one-minute steps", func() {
			basal := set.Basal()
			for i := 0; i < 100; i++ {
				Expect(p.Step(patient.Action{CHO: 0, Insulin: basal})).To(Succeed())
			}

			Expect(p.Time()).To(Equal(100.0))
			Expect(p.Observation().Gsub).To(BeNumerically("~", set.Gb, 1.0))

			state := p.State()
			for _, i := range protected {
				Expect(state[i]).To(BeNumerically(">=", -1e-6),
					"state[%d] went negative", i)
			}
		})

		It("always observes non-negative glucose", func() {
			for i := 0; i < 50; i++ {
				Expect(p.Step(patient.Action{Insulin: set.Basal()})).To(Succeed())
				Expect(p.Observation().Gsub).To(BeNumerically(">=", 0))
			}
		})
	})

	Describe("announcing an 80 g meal at a single instant", func() {
		It("eats 5 g/min for 16 minutes, eating flag bracketing the episode", func() {
			basal := set.Basal()

			Expect(p.IsEating()).To(BeFalse())

			// announcement minute plus 15 backlog minutes
			for i := 0; i < 16; i++ {
				cho := 0.0
				if i == 0 {
					cho = 80
				}
				Expect(p.Step(patient.Action{CHO: cho, Insulin: basal})).To(Succeed())
				Expect(p.IsEating()).To(BeTrue(), "minute %d", i)
				Expect(p.PlannedMeal()).To(BeNumerically("~", 80-5*float64(i+1), 1e-9))
			}

			Expect(p.Step(patient.Action{Insulin: basal})).To(Succeed())
			Expect(p.IsEating()).To(BeFalse())
			Expect(p.PlannedMeal()).To(BeZero())
		})

		It("raises glucose above the basal level", func() {
			basal := set.Basal()
			Expect(p.Step(patient.Action{CHO: 80, Insulin: basal})).To(Succeed())
			for i := 0; i < 120; i++ {
				Expect(p.Step(patient.Action{Insulin: basal})).To(Succeed())
			}
			Expect(p.Observation().Gsub).To(BeNumerically(">", set.Gb+20))

			state := p.State()
			for _, i := range protected {
				Expect(state[i]).To(BeNumerically(">=", -1e-6))
			}
		})
	})

	Describe("eating episodes", func() {
		It("toggles the flag exactly once per contiguous ingestion run", func() {
			basal := set.Basal()
			announce := []float64{0, 0, 5, 5, 5, 0, 0}
			wantEating := []bool{false, false, true, true, true, false, false}

			for i, cho := range announce {
				Expect(p.Step(patient.Action{CHO: cho, Insulin: basal})).To(Succeed())
				Expect(p.IsEating()).To(Equal(wantEating[i]), "minute %d", i)
			}
		})

		It("keeps one episode across back-to-back announcements", func() {
			basal := set.Basal()
			// 7 g then 11 g while the first backlog is still draining
			Expect(p.Step(patient.Action{CHO: 7, Insulin: basal})).To(Succeed())
			Expect(p.Step(patient.Action{CHO: 11, Insulin: basal})).To(Succeed())

			for p.PlannedMeal() > 0 {
				Expect(p.Step(patient.Action{Insulin: basal})).To(Succeed())
				Expect(p.IsEating()).To(BeTrue())
			}

			// one more zero-ingestion minute ends the episode
			Expect(p.Step(patient.Action{Insulin: basal})).To(Succeed())
			Expect(p.IsEating()).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("is idempotent", func() {
			basal := set.Basal()
			Expect(p.Step(patient.Action{CHO: 30, Insulin: basal})).To(Succeed())
			Expect(p.Step(patient.Action{Insulin: basal})).To(Succeed())

			p.Reset()
			once := p.State()
			onceT := p.Time()

			p.Reset()
			Expect(p.State()).To(Equal(once))
			Expect(p.Time()).To(Equal(onceT))
			Expect(p.IsEating()).To(BeFalse())
			Expect(p.PlannedMeal()).To(BeZero())
		})

		It("restores the initial observation", func() {
			before := p.Observation().Gsub
			basal := set.Basal()
			for i := 0; i < 30; i++ {
				Expect(p.Step(patient.Action{CHO: 5, Insulin: basal})).To(Succeed())
			}
			p.Reset()
			Expect(p.Observation().Gsub).To(Equal(before))
			Expect(p.Time()).To(BeZero())
		})
	})

	Describe("construction", func() {
		It("rejects a wrong-size initial state", func() {
			_, err := patient.New(set, []float64{1, 2, 3}, 0)
			Expect(err).To(HaveOccurred())
		})

		It("builds by preset name and id", func() {
			byName, err := patient.FromName(params.PresetLookup{}, "adult#001")
			Expect(err).NotTo(HaveOccurred())
			Expect(byName.Name()).To(Equal("adult#001"))

			byID, err := patient.FromID(params.PresetLookup{}, 21)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.Name()).To(Equal("child#001"))
		})

		It("fails on unknown patients", func() {
			_, err := patient.FromName(params.PresetLookup{}, "adolescent#099")
			Expect(err).To(HaveOccurred())
		})
	})
})

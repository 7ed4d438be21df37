package flows

import (
	"slices"
	"strings"

	"github.com/jask/healthapp/internal/workflow"
)

// Prescription step ids.
const (
	StepPharmacy           workflow.StepID = "pharmacy"
	StepMedicines          workflow.StepID = "medicines"
	StepInformation        workflow.StepID = "information"
	StepPrescriptionReview workflow.StepID = "review"
	StepPrescriptionDone   workflow.StepID = "final"
)

// Pharmacy is a nominated pharmacy the prescription can be sent to.
type Pharmacy struct {
	Name    string
	Address string
}

// Medicine is a repeat medicine on the patient record.
type Medicine struct {
	Name   string
	Detail string
}

var Pharmacies = []Pharmacy{
	{Name: "Wellcare Pharmacy", Address: "123 High Street, London, SE1 1AA"},
	{Name: "Boots Pharmacy", Address: "456 Main Road, London, SE1 2BB"},
	{Name: "Lloyds Pharmacy", Address: "789 Queen Street, London, SE1 3CC"},
}

var Medicines = []Medicine{
	{Name: "Paracetamol", Detail: "500mg tablets • 100 tablets"},
	{Name: "Ibuprofen", Detail: "200mg tablets • 84 tablets"},
	{Name: "Amoxicillin", Detail: "250mg capsules • 21 capsules"},
}

// PrescriptionSession holds the answers for one repeat prescription order.
type PrescriptionSession struct {
	Pharmacy    string
	Medicines   []string
	Information string
}

// Clone copies the medicine list so snapshots do not share it.
func (s PrescriptionSession) Clone() PrescriptionSession {
	s.Medicines = slices.Clone(s.Medicines)
	return s
}

// NewPrescriptionFlow declares the repeat prescription flow. The nominated
// pharmacy starts as the first entry of Pharmacies.
func NewPrescriptionFlow() (Flow[PrescriptionSession], error) {
	reg, err := workflow.NewRegistry(
		workflow.Field(StepPharmacy, "Pharmacy",
			func(s PrescriptionSession) string { return s.Pharmacy },
			func(s *PrescriptionSession, v string) { s.Pharmacy = v },
			knownPharmacy),
		workflow.Field(StepMedicines, "Medicines",
			func(s PrescriptionSession) []string { return s.Medicines },
			func(s *PrescriptionSession, v []string) { s.Medicines = normaliseMedicines(v) },
			validMedicines),
		workflow.Field(StepInformation, "Additional information",
			func(s PrescriptionSession) string { return s.Information },
			func(s *PrescriptionSession, v string) { s.Information = strings.TrimSpace(v) },
			nil),
		workflow.ReviewStep[PrescriptionSession](StepPrescriptionReview, "Check your request"),
		workflow.FinalStep[PrescriptionSession](StepPrescriptionDone, "Your medicines have been requested"),
	)
	if err != nil {
		return Flow[PrescriptionSession]{}, err
	}
	reg.WithSession(func() PrescriptionSession {
		return PrescriptionSession{Pharmacy: Pharmacies[0].Name}
	})

	pharmacyChoices := make([]Choice, len(Pharmacies))
	for i, p := range Pharmacies {
		pharmacyChoices[i] = Choice{Label: p.Name, Detail: p.Address, Value: p.Name}
	}
	medicineChoices := make([]Choice, len(Medicines))
	for i, m := range Medicines {
		medicineChoices[i] = Choice{Label: m.Name, Detail: m.Detail, Value: m.Name}
	}
	prompts := map[workflow.StepID]Prompt{
		StepPharmacy: {
			Heading: "Your nominated pharmacy",
			Hint:    "Your prescription will be sent here. You can change it.",
			Input:   InputSingle,
			Choices: pharmacyChoices,
		},
		StepMedicines:          {Heading: "Which medicines do you need?", Input: InputMulti, Choices: medicineChoices},
		StepInformation:        {Heading: "Is there anything else your GP needs to know?", Hint: "Optional", Input: InputText},
		StepPrescriptionReview: {Heading: "Check your request"},
		StepPrescriptionDone: {
			Heading: "Your medicines have been requested",
			Hint:    "Once approved it can take 3 to 5 working days for a pharmacy to prepare your prescription.",
		},
	}

	return Flow[PrescriptionSession]{
		Name:     "prescription",
		Title:    "Order a repeat prescription",
		Registry: reg,
		Prompt:   func(id workflow.StepID) Prompt { return prompts[id] },
		Summary: func(s PrescriptionSession) []SummaryRow {
			info := s.Information
			if info == "" {
				info = "None"
			}
			return []SummaryRow{
				{Label: "Pharmacy", Value: s.Pharmacy, Step: StepPharmacy},
				{Label: "Medicines", Value: strings.Join(s.Medicines, ", "), Step: StepMedicines},
				{Label: "Additional information", Value: info, Step: StepInformation},
			}
		},
		Receipt: func(s PrescriptionSession) Receipt {
			return Receipt{
				Sender:  s.Pharmacy,
				Preview: "Repeat prescription requested: " + strings.Join(s.Medicines, ", "),
				Content: "Once approved it can take 3 to 5 working days for a pharmacy to prepare your prescription.",
			}
		},
	}, nil
}

func knownPharmacy(name string) bool {
	return slices.ContainsFunc(Pharmacies, func(p Pharmacy) bool { return p.Name == name })
}

func validMedicines(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if !slices.ContainsFunc(Medicines, func(m Medicine) bool { return m.Name == n }) {
			return false
		}
	}
	return true
}

// normaliseMedicines orders a selection as the catalog does and drops
// duplicates.
func normaliseMedicines(names []string) []string {
	var out []string
	for _, m := range Medicines {
		if slices.Contains(names, m.Name) {
			out = append(out, m.Name)
		}
	}
	return out
}

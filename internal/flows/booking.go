package flows

import (
	"slices"
	"strings"
	"time"

	"github.com/jask/healthapp/internal/workflow"
)

// Booking step ids.
const (
	StepAppointmentType workflow.StepID = "type_select"
	StepDateTime        workflow.StepID = "date_select"
	StepReason          workflow.StepID = "reason"
	StepPhone           workflow.StepID = "phone"
	StepBookingReview   workflow.StepID = "review"
	StepBookingDone     workflow.StepID = "final"
)

// AppointmentTypes offered by the surgery.
var AppointmentTypes = []string{
	"GP appointment",
	"Nurse appointment",
	"Telephone consultation",
	"Video consultation",
}

// PhoneNumber is a contact number held on the patient record.
type PhoneNumber struct {
	Label  string
	Number string
}

// BookingSession holds the answers for one appointment booking.
type BookingSession struct {
	AppointmentType string
	DateTime        time.Time
	Reason          string
	PhoneNumber     string
}

// BookingOptions feed the choice lists of the booking flow.
type BookingOptions struct {
	Phones []PhoneNumber
	Slots  []time.Time
	Loc    *time.Location
}

// NewBookingFlow declares the appointment booking flow.
func NewBookingFlow(opts BookingOptions) (Flow[BookingSession], error) {
	loc := opts.Loc
	if loc == nil {
		loc = time.Local
	}
	numbers := make([]string, len(opts.Phones))
	for i, p := range opts.Phones {
		numbers[i] = p.Number
	}
	slots := slices.Clone(opts.Slots)

	reg, err := workflow.NewRegistry(
		workflow.Field(StepAppointmentType, "Appointment type",
			func(s BookingSession) string { return s.AppointmentType },
			func(s *BookingSession, v string) { s.AppointmentType = v },
			func(v string) bool { return slices.Contains(AppointmentTypes, v) }),
		workflow.Field(StepDateTime, "Date and time",
			func(s BookingSession) time.Time { return s.DateTime },
			func(s *BookingSession, v time.Time) { s.DateTime = v },
			func(v time.Time) bool { return !v.IsZero() }),
		workflow.Field(StepReason, "Reason",
			func(s BookingSession) string { return s.Reason },
			func(s *BookingSession, v string) { s.Reason = strings.TrimSpace(v) },
			func(v string) bool { return strings.TrimSpace(v) != "" }),
		workflow.Field(StepPhone, "Phone number",
			func(s BookingSession) string { return s.PhoneNumber },
			func(s *BookingSession, v string) { s.PhoneNumber = v },
			func(v string) bool { return slices.Contains(numbers, v) }),
		workflow.ReviewStep[BookingSession](StepBookingReview, "Confirm your appointment details"),
		workflow.FinalStep[BookingSession](StepBookingDone, "Appointment confirmed"),
	)
	if err != nil {
		return Flow[BookingSession]{}, err
	}

	prompts := map[workflow.StepID]Prompt{
		StepAppointmentType: {Heading: "Select a type of appointment", Input: InputSingle, Choices: stringChoices(AppointmentTypes)},
		StepDateTime:        {Heading: "Choose a date and time", Input: InputSingle, Choices: slotChoices(slots, loc)},
		StepReason: {
			Heading: "Why do you need this appointment?",
			Hint:    "This helps the practice prepare for your appointment.",
			Input:   InputText,
		},
		StepPhone: {
			Heading: "Select a phone number for this appointment",
			Hint:    "We'll call you on this number if we need to contact you about your appointment.",
			Input:   InputSingle,
			Choices: phoneChoices(opts.Phones),
		},
		StepBookingReview: {Heading: "Confirm your appointment details"},
		StepBookingDone:   {Heading: "Appointment confirmed", Hint: "Keep your phone with you; the GP number may be withheld."},
	}

	return Flow[BookingSession]{
		Name:     "booking",
		Title:    "Book a GP appointment",
		Registry: reg,
		Prompt:   func(id workflow.StepID) Prompt { return prompts[id] },
		Summary: func(s BookingSession) []SummaryRow {
			return []SummaryRow{
				{Label: "Appointment type", Value: s.AppointmentType, Step: StepAppointmentType},
				{Label: "Date and time", Value: FormatSlot(s.DateTime, loc), Step: StepDateTime},
				{Label: "Reason", Value: s.Reason, Step: StepReason},
				{Label: "Phone number", Value: s.PhoneNumber, Step: StepPhone},
			}
		},
		Receipt: func(s BookingSession) Receipt {
			return Receipt{
				Sender:  "GP appointments",
				Preview: "Appointment confirmed: " + s.AppointmentType + " at " + FormatSlot(s.DateTime, loc),
				Content: "Reason: " + s.Reason + ". We'll call you on " + s.PhoneNumber +
					" if we need to contact you about your appointment.",
			}
		},
	}, nil
}

// AvailableSlots returns appointment times on the next days weekdays after
// from, at the surgery's fixed session times.
func AvailableSlots(from time.Time, days int) []time.Time {
	times := [][2]int{{8, 15}, {10, 30}, {14, 0}}
	var out []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for len(out) < days*len(times) {
		day = day.AddDate(0, 0, 1)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, hm := range times {
			out = append(out, day.Add(time.Duration(hm[0])*time.Hour+time.Duration(hm[1])*time.Minute))
		}
	}
	return out
}

// FormatSlot renders an appointment time, or "" for the zero time.
func FormatSlot(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return strings.ToLower(t.Format("3:04PM")) + " on " + t.Format("Monday, 2 January 2006")
}

func stringChoices(values []string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Label: v, Value: v}
	}
	return out
}

func slotChoices(slots []time.Time, loc *time.Location) []Choice {
	out := make([]Choice, len(slots))
	for i, s := range slots {
		out[i] = Choice{Label: FormatSlot(s, loc), Value: s}
	}
	return out
}

func phoneChoices(phones []PhoneNumber) []Choice {
	out := make([]Choice, len(phones))
	for i, p := range phones {
		out[i] = Choice{Label: p.Label, Detail: p.Number, Value: p.Number}
	}
	return out
}

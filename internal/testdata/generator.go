package testdata

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/healthapp/internal/inbox"
)

type seedMessage struct {
	sender  string
	preview string
	content string
	age     time.Duration
	read    bool
	flagged bool
}

var seedMessages = []seedMessage{
	{
		sender:  "Portland Street Great Westood Surgery",
		preview: "Patient survey reminder. The patient feedback survey is about to close.",
		content: "Have your say about Portland Street Great Westood Surgery by providing us with your thoughts.",
		age:     3 * time.Hour,
	},
	{
		sender:  "Range Surgery",
		preview: "Dear {name}, we would like to ask you a few questions about smoking.",
		content: "If you smoke, select SMOKE. If you're an ex smoker, select EX. If you have never smoked, select NEVER.",
		age:     24 * time.Hour,
		read:    true,
		flagged: true,
	},
	{
		sender:  "NHS App",
		preview: "Your next COVID-19 vaccination.",
		content: "I'd like to invite you to get your COVID-19 vaccination this spring.",
		age:     6 * 24 * time.Hour,
	},
}

// MessageID derives a stable id for a seeded message so repeated runs agree.
func MessageID(sender, preview string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("msg:"+sender+"|"+preview)).String()
}

// Messages returns the demo inbox relative to now, addressed to patient.
// Falls back to a generic greeting when patient is empty.
func Messages(now time.Time, patient string) []inbox.Message {
	if patient == "" {
		patient = "patient"
	}
	out := make([]inbox.Message, 0, len(seedMessages))
	for _, s := range seedMessages {
		preview := strings.ReplaceAll(s.preview, "{name}", patient)
		out = append(out, inbox.Message{
			ID:        MessageID(s.sender, s.preview),
			Sender:    s.sender,
			Preview:   preview,
			Content:   s.content,
			Date:      now.Add(-s.age),
			IsRead:    s.read,
			IsFlagged: s.flagged,
		})
	}
	return out
}

// Seed builds a store holding the demo inbox.
func Seed(now time.Time, patient string) (*inbox.Store, error) {
	return inbox.NewStore(Messages(now, patient)...)
}

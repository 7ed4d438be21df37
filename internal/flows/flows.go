// Package flows declares the guided workflows offered by the app: booking a
// GP appointment and ordering a repeat prescription.
package flows

import "github.com/jask/healthapp/internal/workflow"

// InputKind tells a host how the answer for a step is collected.
type InputKind int

const (
	InputNone InputKind = iota
	InputSingle
	InputMulti
	InputText
)

// Choice is one selectable answer. Value is the answer handed to the
// controller (for multi-select steps, the element added to the answer slice).
type Choice struct {
	Label  string
	Detail string
	Value  any
}

// Prompt describes how a step asks for its answer.
type Prompt struct {
	Heading string
	Hint    string
	Input   InputKind
	Choices []Choice
}

// SummaryRow is one line of the review step, linking back to its step.
type SummaryRow struct {
	Label string
	Value string
	Step  workflow.StepID
}

// Receipt is the confirmation message a completed flow leaves in the inbox.
type Receipt struct {
	Sender  string
	Preview string
	Content string
}

// Flow bundles a registry with what a host needs to present it. Receipt may
// be nil.
type Flow[S any] struct {
	Name     string
	Title    string
	Registry *workflow.Registry[S]
	Prompt   func(id workflow.StepID) Prompt
	Summary  func(s S) []SummaryRow
	Receipt  func(s S) Receipt
}

// NewController returns an unstarted controller for f, labelled with its name.
func (f Flow[S]) NewController(opts ...workflow.Option) *workflow.Controller[S] {
	opts = append([]workflow.Option{workflow.WithName(f.Name)}, opts...)
	return workflow.NewController(f.Registry, opts...)
}

package workflow

import (
	"fmt"
	"log/slog"
	"slices"
)

// Status is the lifecycle state of a Controller.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusFinished
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether no further operation is valid.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusAborted
}

// Cloner is implemented by session types holding reference fields (slices,
// maps) so snapshots handed out by the controller do not alias its state.
type Cloner[S any] interface {
	Clone() S
}

func snapshot[S any](s S) S {
	if c, ok := any(s).(Cloner[S]); ok {
		return c.Clone()
	}
	return s
}

// Option configures a Controller.
type Option func(*settings)

type settings struct {
	name      string
	logger    *slog.Logger
	onDismiss func(Status)
}

// WithName labels the flow in log records.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithLogger sets the logger used for transition records.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDismissHandler registers fn to be called once the flow reaches a
// terminal state, so the host can dismiss it.
func WithDismissHandler(fn func(Status)) Option {
	return func(s *settings) { s.onDismiss = fn }
}

// Controller runs one flow over a Registry. It is single-owner and not safe
// for concurrent use; hosts with several observers must serialise calls.
type Controller[S any] struct {
	registry *Registry[S]
	settings

	status  Status
	session S
	current StepID
	history []StepID
	draft   any
}

// NewController returns a controller in the not-started state.
func NewController[S any](registry *Registry[S], opts ...Option) *Controller[S] {
	c := &Controller[S]{
		registry: registry,
		settings: settings{name: "flow", logger: slog.Default()},
	}
	for _, opt := range opts {
		opt(&c.settings)
	}
	return c
}

func (c *Controller[S]) Registry() *Registry[S] { return c.registry }
func (c *Controller[S]) Status() Status         { return c.status }
func (c *Controller[S]) Current() StepID        { return c.current }

// CurrentStep returns the declaration of the displayed step.
func (c *Controller[S]) CurrentStep() Step[S] {
	if c.status != StatusInProgress {
		return Step[S]{}
	}
	return c.registry.step(c.current)
}

// History returns a copy of the navigation history, oldest first.
func (c *Controller[S]) History() []StepID {
	return slices.Clone(c.history)
}

// Session returns a snapshot of the answers collected so far.
func (c *Controller[S]) Session() S {
	return snapshot(c.session)
}

// Draft returns the pending, uncommitted answer of the current step.
func (c *Controller[S]) Draft() any { return c.draft }

// CanGoBack reports whether GoBack would succeed.
func (c *Controller[S]) CanGoBack() bool {
	return c.status == StatusInProgress && len(c.history) > 0
}

// Start begins a fresh run, discarding any run in flight.
func (c *Controller[S]) Start() {
	if c.status.Terminal() {
		violation("start", "", ErrTerminated)
	}
	restarted := c.status == StatusInProgress
	c.session = c.registry.fresh()
	c.history = nil
	c.current = c.registry.First()
	c.reload()
	c.status = StatusInProgress
	c.logger.Debug("workflow started", "flow", c.name, "step", c.current, "restarted", restarted)
}

// Stage records the pending answer of the current step without committing it
// to the session. CanContinue evaluates the staged answer.
func (c *Controller[S]) Stage(answer any) {
	c.mustRun("stage")
	c.draft = answer
}

// CanContinue reports whether the staged answer satisfies the current step.
func (c *Controller[S]) CanContinue() bool {
	if c.status != StatusInProgress {
		return false
	}
	return c.registry.step(c.current).valid(c.draft)
}

// EditMode reports whether the next Advance returns to review: the review
// step is in the history and the current step is neither review nor the step
// that canonically follows it.
func (c *Controller[S]) EditMode() bool {
	if c.status != StatusInProgress {
		return false
	}
	review := c.registry.Review()
	if c.current == review || c.current == c.registry.Last() {
		return false
	}
	return slices.Contains(c.history, review)
}

// Advance commits answer for the current step and moves on. In edit mode the
// controller returns to review and drops the history entries between the
// edited step and review.
func (c *Controller[S]) Advance(answer any) {
	c.mustRun("advance")
	step := c.registry.step(c.current)
	if step.Kind == KindFinal {
		violation("advance", c.current, ErrNoSuccessor)
	}
	if !step.valid(answer) {
		violation("advance", c.current, ErrContinueDisabled)
	}
	step.apply(&c.session, answer)
	// detach the session from slices or maps the caller still holds
	c.session = snapshot(c.session)

	from := c.current
	editing := c.EditMode()
	if editing {
		c.history = c.rewindTo(from)
		c.current = c.registry.Review()
	} else {
		next, ok := c.registry.Successor(from, c.session)
		if !ok {
			violation("advance", from, ErrNoSuccessor)
		}
		c.history = append(c.history, from)
		c.current = next
	}
	c.reload()
	c.logger.Debug("workflow advance", "flow", c.name, "from", from, "to", c.current, "edit", editing, "depth", len(c.history))
}

// rewindTo drops review and everything after it from the history, then cuts
// the remainder back to the first visit of edited.
func (c *Controller[S]) rewindTo(edited StepID) []StepID {
	base := c.history
	if i := slices.Index(base, c.registry.Review()); i >= 0 {
		base = base[:i]
	}
	if i := slices.Index(base, edited); i >= 0 {
		return slices.Clone(base[:i+1])
	}
	return append(slices.Clone(base), edited)
}

// reload resets the draft to the current step's committed answer, read from a
// snapshot so the draft never shares memory with the session.
func (c *Controller[S]) reload() {
	c.draft = c.registry.step(c.current).load(snapshot(c.session))
}

// EditStep leaves review to revisit target.
func (c *Controller[S]) EditStep(target StepID) {
	c.mustRun("edit")
	review := c.registry.Review()
	if c.current != review {
		violation("edit", c.current, ErrNotOnReview)
	}
	step, ok := c.registry.Lookup(target)
	if !ok {
		violation("edit", target, ErrUnknownStep)
	}
	if step.Kind != KindInput || !step.Editable {
		violation("edit", target, ErrNotEditable)
	}
	c.history = append(c.history, review)
	c.current = target
	c.reload()
	c.logger.Debug("workflow edit", "flow", c.name, "step", target, "depth", len(c.history))
}

// GoBack returns to the previous step. Answers already in the session stay.
func (c *Controller[S]) GoBack() {
	c.mustRun("back")
	if len(c.history) == 0 {
		violation("back", c.current, ErrEmptyHistory)
	}
	from := c.current
	last := len(c.history) - 1
	c.current = c.history[last]
	c.history = c.history[:last]
	c.reload()
	c.logger.Debug("workflow back", "flow", c.name, "from", from, "to", c.current, "depth", len(c.history))
}

// Ready reports whether Complete would succeed.
func (c *Controller[S]) Ready() bool {
	if c.status != StatusInProgress || c.current != c.registry.Last() {
		return false
	}
	return c.firstInvalid() == ""
}

func (c *Controller[S]) firstInvalid() StepID {
	for _, st := range c.registry.inputs() {
		if !st.valid(st.load(c.session)) {
			return st.ID
		}
	}
	return ""
}

// Complete finishes the flow and hands the session to the caller. The
// controller must not be used afterwards.
func (c *Controller[S]) Complete() S {
	c.mustRun("complete")
	if c.current != c.registry.Last() {
		violation("complete", c.current, ErrIncomplete)
	}
	if bad := c.firstInvalid(); bad != "" {
		violation("complete", bad, ErrIncomplete)
	}
	result := snapshot(c.session)
	c.finish(StatusFinished)
	return result
}

// Cancel aborts the flow, discarding every collected answer.
func (c *Controller[S]) Cancel() {
	if c.status.Terminal() {
		violation("cancel", c.current, ErrTerminated)
	}
	c.finish(StatusAborted)
}

func (c *Controller[S]) finish(st Status) {
	last := c.current
	var zero S
	c.session = zero
	c.history = nil
	c.draft = nil
	c.current = ""
	c.status = st
	c.logger.Debug("workflow ended", "flow", c.name, "status", st, "last_step", last)
	if c.onDismiss != nil {
		c.onDismiss(st)
	}
}

func (c *Controller[S]) mustRun(op string) {
	switch c.status {
	case StatusNotStarted:
		violation(op, "", ErrNotStarted)
	case StatusFinished, StatusAborted:
		violation(op, "", ErrTerminated)
	}
}

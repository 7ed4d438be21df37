package workflow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	stType   StepID = "type_select"
	stDate   StepID = "date_select"
	stReason StepID = "reason"
	stPhone  StepID = "phone"
	stReview StepID = "review"
	stFinal  StepID = "final"
)

type visit struct {
	Kind   string
	When   time.Time
	Reason string
	Phone  string
}

func nonEmpty(s string) bool { return strings.TrimSpace(s) != "" }

func visitRegistry(t *testing.T) *Registry[visit] {
	t.Helper()
	r, err := NewRegistry(
		Field(stType, "Type", func(v visit) string { return v.Kind }, func(v *visit, a string) { v.Kind = a }, nonEmpty),
		Field(stDate, "Date", func(v visit) time.Time { return v.When }, func(v *visit, a time.Time) { v.When = a }, func(a time.Time) bool { return !a.IsZero() }),
		Field(stReason, "Reason", func(v visit) string { return v.Reason }, func(v *visit, a string) { v.Reason = a }, nonEmpty),
		Field(stPhone, "Phone", func(v visit) string { return v.Phone }, func(v *visit, a string) { v.Phone = a }, nonEmpty),
		ReviewStep[visit](stReview, "Review"),
		FinalStep[visit](stFinal, "Done"),
	)
	require.NoError(t, err)
	return r
}

var (
	day1 = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
)

func toReview(t *testing.T, c *Controller[visit]) {
	t.Helper()
	c.Start()
	c.Advance("GP appointment")
	c.Advance(day1)
	c.Advance("Back pain")
	c.Advance("07700 900123")
	require.Equal(t, stReview, c.Current())
}

func requireViolation(t *testing.T, want error, fn func()) {
	t.Helper()
	err := Try(fn)
	require.Error(t, err)
	require.True(t, errors.Is(err, want), "got %v, want %v", err, want)
}

func TestForwardRunFollowsDeclaredOrder(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	require.Equal(t, stType, c.Current())
	require.Empty(t, c.History())

	answers := []any{"Nurse appointment", day1, "Repeat bloods", "020 7946 0123"}
	want := []StepID{stDate, stReason, stPhone, stReview}
	for i, a := range answers {
		require.False(t, c.EditMode())
		c.Advance(a)
		require.Equal(t, want[i], c.Current())
	}
	require.Equal(t, []StepID{stType, stDate, stReason, stPhone}, c.History())
}

func TestGoBackInvertsAdvance(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	c.Advance("GP appointment")
	c.Advance(day1)

	before := c.History()
	c.Advance("Cough")
	c.GoBack()

	require.Equal(t, stReason, c.Current())
	require.Equal(t, before, c.History())
	// the answer survives and pre-fills the revisited step
	require.Equal(t, "Cough", c.Session().Reason)
	require.Equal(t, "Cough", c.Draft())
	require.True(t, c.CanContinue())
}

func TestEditFromReviewReturnsToReview(t *testing.T) {
	c := NewController(visitRegistry(t))
	toReview(t, c)

	c.EditStep(stDate)
	require.Equal(t, stDate, c.Current())
	require.True(t, c.EditMode())
	require.Equal(t, day1, c.Draft())

	c.Advance(day2)
	require.Equal(t, stReview, c.Current())
	require.Equal(t, []StepID{stType, stDate}, c.History())
	require.Equal(t, day2, c.Session().When)
	// later answers are kept as they were
	require.Equal(t, "Back pain", c.Session().Reason)
	require.False(t, c.EditMode())
}

func TestEditThenBackAfterRewind(t *testing.T) {
	c := NewController(visitRegistry(t))
	toReview(t, c)
	c.EditStep(stDate)
	c.Advance(day2)

	c.GoBack()
	require.Equal(t, stDate, c.Current())
	require.Equal(t, []StepID{stType}, c.History())

	// review is no longer in the history, so this is a plain forward move
	c.Advance(day2)
	require.Equal(t, stReason, c.Current())
}

func TestBackOutOfEditReturnsToReview(t *testing.T) {
	c := NewController(visitRegistry(t))
	toReview(t, c)
	c.EditStep(stReason)
	c.GoBack()
	require.Equal(t, stReview, c.Current())
	require.Equal(t, []StepID{stType, stDate, stReason, stPhone}, c.History())
}

func TestStepAfterReviewIsNotEditMode(t *testing.T) {
	c := NewController(visitRegistry(t))
	toReview(t, c)
	c.Advance(nil)
	require.Equal(t, stFinal, c.Current())
	require.Contains(t, c.History(), stReview)
	require.False(t, c.EditMode())
}

func TestCanContinueUsesStagedAnswer(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	require.False(t, c.CanContinue())
	c.Stage("Video consultation")
	require.True(t, c.CanContinue())
	c.Stage("   ")
	require.False(t, c.CanContinue())
	c.Stage(42)
	require.False(t, c.CanContinue())
	require.Empty(t, c.Session().Kind)
}

func TestCompleteReturnsSession(t *testing.T) {
	var dismissed []Status
	c := NewController(visitRegistry(t), WithName("booking"), WithDismissHandler(func(s Status) { dismissed = append(dismissed, s) }))
	toReview(t, c)
	c.Advance(nil)
	require.True(t, c.Ready())

	got := c.Complete()
	require.Equal(t, visit{Kind: "GP appointment", When: day1, Reason: "Back pain", Phone: "07700 900123"}, got)
	require.Equal(t, StatusFinished, c.Status())
	require.Equal(t, []Status{StatusFinished}, dismissed)
	require.Equal(t, visit{}, c.Session())

	requireViolation(t, ErrTerminated, func() { c.GoBack() })
	requireViolation(t, ErrTerminated, func() { c.Start() })
	requireViolation(t, ErrTerminated, func() { c.Cancel() })
}

func TestCancelDiscardsEverything(t *testing.T) {
	var dismissed Status
	c := NewController(visitRegistry(t), WithDismissHandler(func(s Status) { dismissed = s }))
	c.Start()
	c.Advance("GP appointment")
	c.Cancel()

	require.Equal(t, StatusAborted, c.Status())
	require.Equal(t, StatusAborted, dismissed)
	require.Empty(t, c.History())
	require.Equal(t, visit{}, c.Session())
	require.False(t, c.CanContinue())
	requireViolation(t, ErrTerminated, func() { c.Advance("x") })
}

func TestStartDiscardsRunInFlight(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	c.Advance("GP appointment")
	c.Start()
	require.Equal(t, stType, c.Current())
	require.Empty(t, c.History())
	require.Equal(t, visit{}, c.Session())
}

func TestContractViolations(t *testing.T) {
	c := NewController(visitRegistry(t))
	requireViolation(t, ErrNotStarted, func() { c.Advance("x") })
	requireViolation(t, ErrNotStarted, func() { c.Complete() })

	c.Start()
	requireViolation(t, ErrContinueDisabled, func() { c.Advance("") })
	requireViolation(t, ErrEmptyHistory, func() { c.GoBack() })
	requireViolation(t, ErrNotOnReview, func() { c.EditStep(stDate) })
	requireViolation(t, ErrIncomplete, func() { c.Complete() })
	require.Equal(t, stType, c.Current())

	toReview(t, c)
	requireViolation(t, ErrNotEditable, func() { c.EditStep(stFinal) })
	requireViolation(t, ErrUnknownStep, func() { c.EditStep("nope") })
	requireViolation(t, ErrIncomplete, func() { c.Complete() })

	c.Advance(nil)
	requireViolation(t, ErrNoSuccessor, func() { c.Advance(nil) })
}

func TestViolationPanicsWithContractError(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	require.PanicsWithError(t, `advance at "type_select": workflow: continue is disabled for this step`, func() {
		c.Advance("")
	})
}

func TestTryPropagatesOtherPanics(t *testing.T) {
	require.PanicsWithValue(t, "boom", func() {
		_ = Try(func() { panic("boom") })
	})
	require.NoError(t, Try(func() {}))
}

type basket struct {
	Items []string
}

func (b basket) Clone() basket {
	return basket{Items: append([]string(nil), b.Items...)}
}

func TestSessionSnapshotDoesNotAlias(t *testing.T) {
	r := MustRegistry(
		Field(StepID("items"), "Items", func(b basket) []string { return b.Items }, func(b *basket, a []string) { b.Items = a }, func(a []string) bool { return len(a) > 0 }),
		ReviewStep[basket]("review", "Review"),
		FinalStep[basket]("final", "Done"),
	)
	c := NewController(r)
	c.Start()
	c.Advance([]string{"Paracetamol"})

	snap := c.Session()
	snap.Items[0] = "changed"
	require.Equal(t, []string{"Paracetamol"}, c.Session().Items)
}

func TestAnswerAndDraftDoNotAliasSession(t *testing.T) {
	r := MustRegistry(
		Field(StepID("items"), "Items", func(b basket) []string { return b.Items }, func(b *basket, a []string) { b.Items = a }, func(a []string) bool { return len(a) > 0 }),
		ReviewStep[basket]("review", "Review"),
		FinalStep[basket]("final", "Done"),
	)
	c := NewController(r)
	c.Start()
	answer := []string{"Paracetamol"}
	c.Advance(answer)
	answer[0] = "changed by caller"
	require.Equal(t, []string{"Paracetamol"}, c.Session().Items)

	c.GoBack()
	c.Draft().([]string)[0] = "changed through draft"
	require.Equal(t, []string{"Paracetamol"}, c.Session().Items)

	c.Advance([]string{"Ibuprofen"})
	c.EditStep("items")
	c.Draft().([]string)[0] = "changed through draft"
	require.Equal(t, []string{"Ibuprofen"}, c.Session().Items)
}

func TestRejectedAdvanceKeepsStagedDraft(t *testing.T) {
	c := NewController(visitRegistry(t))
	c.Start()
	c.Stage("GP appointment")
	requireViolation(t, ErrContinueDisabled, func() { c.Advance("") })
	require.Equal(t, "GP appointment", c.Draft())
	require.True(t, c.CanContinue())
}

func TestSessionFactorySeedsDefaults(t *testing.T) {
	r := visitRegistry(t).WithSession(func() visit { return visit{Kind: "GP appointment"} })
	c := NewController(r)
	c.Start()
	require.True(t, c.CanContinue())
	require.Equal(t, "GP appointment", c.Draft())
}

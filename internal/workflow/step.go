package workflow

import "fmt"

// StepID identifies one position in a flow.
type StepID string

// Kind separates data-entry steps from the two distinguished tail steps.
type Kind int

const (
	KindInput Kind = iota
	KindReview
	KindFinal
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindReview:
		return "review"
	case KindFinal:
		return "final"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Step declares one step of a flow over the session type S.
//
// Valid is evaluated against the pending answer for the step, Load reads the
// answer currently held by the session and Apply writes a committed answer.
// Next overrides the declared order when set; it must name a registered step.
type Step[S any] struct {
	ID       StepID
	Title    string
	Kind     Kind
	Editable bool

	Valid func(answer any) bool
	Load  func(s S) any
	Apply func(s *S, answer any)
	Next  func(s S) StepID
}

func (st Step[S]) valid(answer any) bool {
	if st.Valid == nil {
		return true
	}
	return st.Valid(answer)
}

func (st Step[S]) load(s S) any {
	if st.Load == nil {
		return nil
	}
	return st.Load(s)
}

func (st Step[S]) apply(s *S, answer any) {
	if st.Apply == nil {
		return
	}
	st.Apply(s, answer)
}

// Field builds an editable input step whose answer has type A. get and set
// map the answer onto a session field; valid may be nil when any value of A
// is acceptable.
func Field[S, A any](id StepID, title string, get func(S) A, set func(*S, A), valid func(A) bool) Step[S] {
	return Step[S]{
		ID:       id,
		Title:    title,
		Kind:     KindInput,
		Editable: true,
		Valid: func(answer any) bool {
			a, ok := answer.(A)
			if !ok {
				return false
			}
			return valid == nil || valid(a)
		},
		Load: func(s S) any { return get(s) },
		Apply: func(s *S, answer any) {
			a, ok := answer.(A)
			if !ok {
				var want A
				violation("apply", id, fmt.Errorf("%w: want %T, got %T", ErrAnswerType, want, answer))
			}
			set(s, a)
		},
	}
}

// ReviewStep builds the confirmation step that summarises a session.
func ReviewStep[S any](id StepID, title string) Step[S] {
	return Step[S]{ID: id, Title: title, Kind: KindReview}
}

// FinalStep builds the terminal step of a flow.
func FinalStep[S any](id StepID, title string) Step[S] {
	return Step[S]{ID: id, Title: title, Kind: KindFinal}
}

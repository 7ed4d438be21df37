package workflow

import (
	"errors"
	"fmt"
)

var (
	// Registry errors.
	ErrEmptyRegistry   = errors.New("workflow: registry has no steps")
	ErrDuplicateStep   = errors.New("workflow: duplicate step id")
	ErrNoReviewStep    = errors.New("workflow: registry needs exactly one review step")
	ErrNoFinalStep     = errors.New("workflow: registry needs exactly one final step")
	ErrStepPlacement   = errors.New("workflow: review must directly precede the final step, which must be last")
	ErrMissingAccessor = errors.New("workflow: input step needs Load and Apply")

	// Contract violations.
	ErrNotStarted       = errors.New("workflow: not started")
	ErrTerminated       = errors.New("workflow: already finished or cancelled")
	ErrContinueDisabled = errors.New("workflow: continue is disabled for this step")
	ErrNotOnReview      = errors.New("workflow: not on the review step")
	ErrNotEditable      = errors.New("workflow: step is not editable")
	ErrEmptyHistory     = errors.New("workflow: no step to go back to")
	ErrIncomplete       = errors.New("workflow: flow is not ready to complete")
	ErrNoSuccessor      = errors.New("workflow: step has no successor")
	ErrUnknownStep      = errors.New("workflow: unknown step")
	ErrAnswerType       = errors.New("workflow: answer has the wrong type")
)

// ContractError reports an operation called while its precondition did not
// hold. It is raised with panic, never returned from the operation itself.
type ContractError struct {
	Op   string
	Step StepID
	Err  error
}

func (e *ContractError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s at %q: %v", e.Op, e.Step, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

func violation(op string, step StepID, err error) {
	panic(&ContractError{Op: op, Step: step, Err: err})
}

// Try runs fn and converts a contract violation raised inside it into an
// error. Any other panic is propagated unchanged.
func Try(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ce *ContractError
		if e, ok := r.(error); ok && errors.As(e, &ce) {
			err = ce
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

package workflow

import "fmt"

// Registry is the ordered catalog of steps for one flow.
type Registry[S any] struct {
	steps      []Step[S]
	index      map[StepID]int
	review     int
	final      int
	newSession func() S
}

// NewRegistry validates steps and returns a registry in their declared order.
// Exactly one review step and one final step are required; the final step
// must be last and the review step must sit directly before it.
func NewRegistry[S any](steps ...Step[S]) (*Registry[S], error) {
	if len(steps) == 0 {
		return nil, ErrEmptyRegistry
	}
	r := &Registry[S]{
		steps:  append([]Step[S](nil), steps...),
		index:  make(map[StepID]int, len(steps)),
		review: -1,
		final:  -1,
	}
	for i, st := range r.steps {
		if _, dup := r.index[st.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStep, st.ID)
		}
		r.index[st.ID] = i
		switch st.Kind {
		case KindReview:
			if r.review >= 0 {
				return nil, ErrNoReviewStep
			}
			r.review = i
		case KindFinal:
			if r.final >= 0 {
				return nil, ErrNoFinalStep
			}
			r.final = i
		default:
			if st.Load == nil || st.Apply == nil {
				return nil, fmt.Errorf("%w: %q", ErrMissingAccessor, st.ID)
			}
		}
	}
	if r.review < 0 {
		return nil, ErrNoReviewStep
	}
	if r.final < 0 {
		return nil, ErrNoFinalStep
	}
	if r.final != len(r.steps)-1 || r.review != r.final-1 {
		return nil, ErrStepPlacement
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid declaration. It is
// meant for package-level flow catalogs.
func MustRegistry[S any](steps ...Step[S]) *Registry[S] {
	r, err := NewRegistry(steps...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithSession sets the factory used to create the session for each run. The
// zero value of S is used when no factory is set.
func (r *Registry[S]) WithSession(fn func() S) *Registry[S] {
	r.newSession = fn
	return r
}

func (r *Registry[S]) fresh() S {
	if r.newSession != nil {
		return r.newSession()
	}
	var s S
	return s
}

func (r *Registry[S]) First() StepID  { return r.steps[0].ID }
func (r *Registry[S]) Last() StepID   { return r.steps[r.final].ID }
func (r *Registry[S]) Review() StepID { return r.steps[r.review].ID }

// Len reports the number of declared steps.
func (r *Registry[S]) Len() int { return len(r.steps) }

// Lookup returns the step declared under id.
func (r *Registry[S]) Lookup(id StepID) (Step[S], bool) {
	i, ok := r.index[id]
	if !ok {
		return Step[S]{}, false
	}
	return r.steps[i], true
}

// Position returns the declared index of id, or -1.
func (r *Registry[S]) Position(id StepID) int {
	i, ok := r.index[id]
	if !ok {
		return -1
	}
	return i
}

// IDs returns the step ids in declared order.
func (r *Registry[S]) IDs() []StepID {
	out := make([]StepID, len(r.steps))
	for i, st := range r.steps {
		out[i] = st.ID
	}
	return out
}

// Editable returns the ids that may be revisited from review, in order.
func (r *Registry[S]) Editable() []StepID {
	var out []StepID
	for _, st := range r.steps {
		if st.Kind == KindInput && st.Editable {
			out = append(out, st.ID)
		}
	}
	return out
}

// Successor returns the canonical next step after id for session s. The
// final step has no successor.
func (r *Registry[S]) Successor(id StepID, s S) (StepID, bool) {
	i, ok := r.index[id]
	if !ok || i == r.final {
		return "", false
	}
	st := r.steps[i]
	if st.Next != nil {
		next := st.Next(s)
		if _, known := r.index[next]; !known {
			violation("successor", id, fmt.Errorf("%w: %q", ErrUnknownStep, next))
		}
		return next, true
	}
	return r.steps[i+1].ID, true
}

// inputs returns the data-entry steps in order.
func (r *Registry[S]) inputs() []Step[S] {
	var out []Step[S]
	for _, st := range r.steps {
		if st.Kind == KindInput {
			out = append(out, st)
		}
	}
	return out
}

func (r *Registry[S]) step(id StepID) Step[S] {
	return r.steps[r.index[id]]
}

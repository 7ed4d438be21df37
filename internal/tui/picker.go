package tui

import (
	"slices"
	"time"

	"github.com/jask/healthapp/internal/flows"
)

// picker is the cursor and selection state for a choice step.
type picker struct {
	choices  []flows.Choice
	cursor   int
	multi    bool
	selected map[int]bool
}

func newPicker(choices []flows.Choice, multi bool) *picker {
	return &picker{choices: choices, multi: multi, selected: make(map[int]bool)}
}

// preselect marks the choices matching the step's current answer.
func (p *picker) preselect(answer any) {
	if p == nil {
		return
	}
	clear(p.selected)
	for i, c := range p.choices {
		if p.multi {
			if vals, ok := answer.([]string); ok {
				if s, ok := c.Value.(string); ok && slices.Contains(vals, s) {
					p.selected[i] = true
				}
			}
			continue
		}
		if sameValue(c.Value, answer) {
			p.selected[i] = true
			p.cursor = i
		}
	}
}

func (p *picker) up() {
	if p != nil && p.cursor > 0 {
		p.cursor--
	}
}

func (p *picker) down() {
	if p != nil && p.cursor < len(p.choices)-1 {
		p.cursor++
	}
}

// choose selects the choice under the cursor; in multi mode it toggles it.
func (p *picker) choose() {
	if p == nil || len(p.choices) == 0 {
		return
	}
	if p.multi {
		p.selected[p.cursor] = !p.selected[p.cursor]
		return
	}
	clear(p.selected)
	p.selected[p.cursor] = true
}

// toggleAll selects every choice, or clears them all when every choice is
// already selected. Single-choice pickers ignore it.
func (p *picker) toggleAll() {
	if p == nil || !p.multi {
		return
	}
	all := len(p.selected) > 0
	for i := range p.choices {
		all = all && p.selected[i]
	}
	clear(p.selected)
	if all {
		return
	}
	for i := range p.choices {
		p.selected[i] = true
	}
}

// answer builds the value to stage with the controller. A single-choice
// picker with nothing selected yields nil.
func (p *picker) answer() any {
	if p == nil {
		return nil
	}
	if p.multi {
		var out []string
		for i, c := range p.choices {
			if s, ok := c.Value.(string); ok && p.selected[i] {
				out = append(out, s)
			}
		}
		return out
	}
	for i, c := range p.choices {
		if p.selected[i] {
			return c.Value
		}
	}
	return nil
}

func sameValue(a, b any) bool {
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case time.Time:
		vb, ok := b.(time.Time)
		return ok && va.Equal(vb)
	}
	return false
}

package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/healthapp/internal/flows"
	"github.com/jask/healthapp/internal/workflow"
)

// flowScreen hosts one guided workflow. It never calls a controller
// operation whose precondition is false; Try only guards against bugs.
type flowScreen[S any] struct {
	flow    flows.Flow[S]
	logger  *slog.Logger
	deliver func(flows.Receipt)
	ctrl    *workflow.Controller[S]
	picker  *picker
	text    string
	// closing is set while the user confirms cancelling the form.
	closing bool
	outcome workflow.Status
	result  []flows.SummaryRow
}

func newFlowScreen[S any](f flows.Flow[S], logger *slog.Logger, deliver func(flows.Receipt)) *flowScreen[S] {
	fs := &flowScreen[S]{flow: f, logger: logger, deliver: deliver}
	fs.restart()
	return fs
}

func (fs *flowScreen[S]) restart() {
	fs.outcome = workflow.StatusInProgress
	fs.result = nil
	fs.closing = false
	fs.ctrl = fs.flow.NewController(
		workflow.WithLogger(fs.logger),
		workflow.WithDismissHandler(func(st workflow.Status) { fs.outcome = st }),
	)
	fs.ctrl.Start()
	fs.enterStep()
}

// enterStep rebuilds the input widgets from the controller's draft.
func (fs *flowScreen[S]) enterStep() {
	fs.picker = nil
	fs.text = ""
	if fs.ctrl.Status() != workflow.StatusInProgress {
		return
	}
	p := fs.flow.Prompt(fs.ctrl.Current())
	switch p.Input {
	case flows.InputSingle, flows.InputMulti:
		fs.picker = newPicker(p.Choices, p.Input == flows.InputMulti)
		fs.picker.preselect(fs.ctrl.Draft())
	case flows.InputText:
		if s, ok := fs.ctrl.Draft().(string); ok {
			fs.text = s
		}
	}
}

func (fs *flowScreen[S]) title() string { return fs.flow.Title }

func (fs *flowScreen[S]) capturesText() bool { return fs.scope() == scopeFlowText }

func (fs *flowScreen[S]) scope() string {
	if fs.outcome.Terminal() {
		return scopeFlowEnded
	}
	if fs.closing {
		return scopeFlowConfirm
	}
	switch fs.ctrl.CurrentStep().Kind {
	case workflow.KindReview:
		return scopeFlowReview
	case workflow.KindFinal:
		return scopeFlowFinal
	}
	switch fs.flow.Prompt(fs.ctrl.Current()).Input {
	case flows.InputMulti:
		return scopeFlowMulti
	case flows.InputText:
		return scopeFlowText
	}
	return scopeFlowSingle
}

func (fs *flowScreen[S]) update(km tea.KeyMsg) note {
	switch keys.action(km, fs.scope()) {
	case "restart":
		fs.restart()
	case "cancel":
		fs.closing = true
	case "keep":
		fs.closing = false
	case "confirm_cancel":
		fs.closing = false
		fs.ctrl.Cancel()
		return note{text: fs.flow.Title + " cancelled"}
	case "back":
		if fs.ctrl.CanGoBack() {
			fs.ctrl.GoBack()
			fs.enterStep()
		}
	case "up":
		fs.picker.up()
	case "down":
		fs.picker.down()
	case "toggle":
		fs.picker.choose()
		fs.ctrl.Stage(fs.picker.answer())
	case "toggle_all":
		fs.picker.toggleAll()
		fs.ctrl.Stage(fs.picker.answer())
	case "edit":
		return fs.edit(int(km.String()[0] - '1'))
	case "complete":
		return fs.complete()
	case "continue":
		switch fs.scope() {
		case scopeFlowReview:
			return fs.advance(nil)
		case scopeFlowText:
			return fs.advance(fs.text)
		case scopeFlowSingle:
			fs.picker.choose()
		}
		return fs.advance(fs.picker.answer())
	default:
		if fs.scope() == scopeFlowText {
			fs.typeKey(km)
		}
	}
	return note{}
}

func (fs *flowScreen[S]) typeKey(km tea.KeyMsg) {
	switch km.Type {
	case tea.KeyBackspace:
		if r := []rune(fs.text); len(r) > 0 {
			fs.text = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		fs.text += " "
	case tea.KeyRunes:
		fs.text += string(km.Runes)
	default:
		return
	}
	fs.ctrl.Stage(fs.text)
}

func (fs *flowScreen[S]) advance(answer any) note {
	fs.ctrl.Stage(answer)
	if !fs.ctrl.CanContinue() {
		return note{}
	}
	if err := workflow.Try(func() { fs.ctrl.Advance(answer) }); err != nil {
		fs.logger.Error("advance rejected", "flow", fs.flow.Name, "err", err)
		return note{text: err.Error(), err: true}
	}
	fs.enterStep()
	return note{}
}

func (fs *flowScreen[S]) edit(row int) note {
	rows := fs.flow.Summary(fs.ctrl.Session())
	if row >= len(rows) {
		return note{}
	}
	if err := workflow.Try(func() { fs.ctrl.EditStep(rows[row].Step) }); err != nil {
		return note{text: err.Error(), err: true}
	}
	fs.enterStep()
	return note{}
}

func (fs *flowScreen[S]) complete() note {
	if !fs.ctrl.Ready() {
		return note{}
	}
	var session S
	if err := workflow.Try(func() { session = fs.ctrl.Complete() }); err != nil {
		return note{text: err.Error(), err: true}
	}
	fs.result = fs.flow.Summary(session)
	fs.logger.Info("flow completed", "flow", fs.flow.Name)
	if fs.flow.Receipt != nil && fs.deliver != nil {
		fs.deliver(fs.flow.Receipt(session))
	}
	return note{text: fs.flow.Title + " submitted"}
}

func (fs *flowScreen[S]) view(time.Time) string {
	var b strings.Builder
	switch fs.outcome {
	case workflow.StatusFinished:
		b.WriteString(headerStyle.Render("Request sent") + "\n\n")
		writeRows(&b, fs.result, false)
		return b.String()
	case workflow.StatusAborted:
		b.WriteString(headerStyle.Render(fs.flow.Title+" cancelled") + "\n\n")
		b.WriteString(mutedStyle.Render("Nothing was sent.") + "\n")
		return b.String()
	}

	id := fs.ctrl.Current()
	reg := fs.ctrl.Registry()
	prompt := fs.flow.Prompt(id)
	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(prompt.Heading), mutedStyle.Render(fmt.Sprintf("step %d of %d", reg.Position(id)+1, reg.Len())))
	if prompt.Hint != "" {
		b.WriteString(mutedStyle.Render(prompt.Hint) + "\n")
	}
	b.WriteString("\n")

	switch fs.ctrl.CurrentStep().Kind {
	case workflow.KindReview:
		writeRows(&b, fs.flow.Summary(fs.ctrl.Session()), true)
	case workflow.KindFinal:
		writeRows(&b, fs.flow.Summary(fs.ctrl.Session()), false)
	default:
		if fs.picker != nil {
			writePicker(&b, fs.picker)
		} else if prompt.Input == flows.InputText {
			b.WriteString(textStyle.Render("> "+fs.text+"_") + "\n")
		}
	}

	if fs.closing {
		b.WriteString("\n" + statusErrStyle.Render("Are you sure you want to close this form? Your answers will not be saved.") + "\n")
		return b.String()
	}

	b.WriteString("\n")
	label := "Continue"
	if fs.ctrl.EditMode() {
		label = "Save and return to review"
	}
	ok := fs.ctrl.CanContinue()
	if fs.ctrl.CurrentStep().Kind == workflow.KindFinal {
		label, ok = "Done", fs.ctrl.Ready()
	}
	if ok {
		b.WriteString(enabledStyle.Render("[ "+label+" ]") + "\n")
	} else {
		b.WriteString(disabledStyle.Render("[ "+label+" ]") + "\n")
	}
	return b.String()
}

func writeRows(b *strings.Builder, rows []flows.SummaryRow, numbered bool) {
	for i, r := range rows {
		prefix := "  "
		if numbered {
			prefix = cursorStyle.Render(fmt.Sprintf("%d ", i+1))
		}
		fmt.Fprintf(b, "%s%s: %s\n", prefix, mutedStyle.Render(r.Label), textStyle.Render(r.Value))
	}
}

func writePicker(b *strings.Builder, p *picker) {
	for i, c := range p.choices {
		marker := "  "
		if i == p.cursor {
			marker = cursorStyle.Render("> ")
		}
		box := "( )"
		if p.multi {
			box = "[ ]"
		}
		if p.selected[i] {
			box = box[:1] + "x" + box[2:]
		}
		line := fmt.Sprintf("%s%s %s", marker, box, textStyle.Render(c.Label))
		if c.Detail != "" {
			line += "  " + mutedStyle.Render(c.Detail)
		}
		b.WriteString(line + "\n")
	}
}

func (fs *flowScreen[S]) help() string {
	scope := fs.scope()
	if scope == scopeFlowEnded || fs.ctrl.CanGoBack() {
		return keys.help(scope)
	}
	return keys.help(scope, "back")
}

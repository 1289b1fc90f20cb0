package viewer

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"logview/internal/app/query"
	"logview/internal/app/ui/components"
)

// Form field names carried by FieldChangedMsg
const (
	FieldQuery     = query.KeyQuery
	FieldStartDate = query.KeyStartDate
	FieldEndDate   = query.KeyEndDate
)

// FieldChangedMsg reports an edit of one text field
type FieldChangedMsg struct {
	Name  string
	Value string
}

// SubmitMsg asks for the current filter to be searched
type SubmitMsg struct{}

// AutoRefreshToggledMsg reports the new state of the auto-refresh checkbox
type AutoRefreshToggledMsg struct {
	Enabled bool
}

type formFocus int

const (
	focusQuery formFocus = iota
	focusStartDate
	focusEndDate
	focusAutoRefresh
	focusSubmit
	formFocusCount
)

var fieldNames = [...]string{FieldQuery, FieldStartDate, FieldEndDate}

// Form is the filter form. It keeps no filter of its own: every Update and View
// takes the filter it renders, and each edit comes back as an event for the
// caller to apply before the next key is handled.
type Form struct {
	inputs [3]textinput.Model
	focus  formFocus
	active bool
	keys   KeyMap
}

// NewForm creates a blurred form
func NewForm(keys KeyMap) Form {
	f := Form{keys: keys}

	placeholders := [...]string{`level:error AND service.name:"api"`, "YYYY-MM-DD", "YYYY-MM-DD"}

	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		_ = ti.Cursor.SetMode(cursor.CursorStatic)

		if i != int(focusQuery) {
			ti.CharLimit = len("2006-01-02")
			ti.Width = len("2006-01-02")
		}

		f.inputs[i] = ti
	}

	return f
}

// Focus activates the form on its query field
func (f Form) Focus() Form {
	f.active = true
	f.focus = focusQuery

	return f.applyFocus()
}

// Blur deactivates the form
func (f Form) Blur() Form {
	f.active = false

	return f.applyFocus()
}

// Active reports whether the form has keyboard focus
func (f Form) Active() bool {
	return f.active
}

// SetWidth sizes the query input
func (f Form) SetWidth(width int) Form {
	w := width - components.FormLabelStyle.GetWidth() - 2
	if w < components.MessageMinWidth {
		w = components.MessageMinWidth
	}

	f.inputs[focusQuery].Width = w

	return f
}

// Update handles one key press against filter and returns the event it produced, if any:
// a FieldChangedMsg, SubmitMsg or AutoRefreshToggledMsg. Submitting is ignored while loading.
func (f Form) Update(msg tea.KeyMsg, filter query.Filter, loading bool) (Form, tea.Msg, tea.Cmd) {
	f = f.sync(filter)

	switch {
	case key.Matches(msg, f.keys.NextField):
		f.focus = (f.focus + 1) % formFocusCount
		return f.applyFocus(), nil, nil

	case key.Matches(msg, f.keys.PrevField):
		f.focus = (f.focus + formFocusCount - 1) % formFocusCount
		return f.applyFocus(), nil, nil

	case key.Matches(msg, f.keys.Submit):
		if loading {
			return f, nil, nil
		}

		return f, SubmitMsg{}, nil

	case f.focus == focusAutoRefresh && key.Matches(msg, f.keys.Toggle):
		return f, AutoRefreshToggledMsg{Enabled: !filter.AutoRefresh}, nil
	}

	if f.focus >= focusAutoRefresh {
		return f, nil, nil
	}

	before := f.inputs[f.focus].Value()

	var cmd tea.Cmd

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	if value := f.inputs[f.focus].Value(); value != before {
		return f, FieldChangedMsg{Name: fieldNames[f.focus], Value: value}, cmd
	}

	return f, nil, cmd
}

// View renders the form for filter
func (f Form) View(filter query.Filter, loading bool) string {
	f = f.sync(filter)

	queryLine := f.label("query", focusQuery) + f.inputs[focusQuery].View()

	checkbox := components.CheckboxOff
	if filter.AutoRefresh {
		checkbox = components.CheckboxOn
	}

	checkbox += " auto-refresh"
	if f.active && f.focus == focusAutoRefresh {
		checkbox = components.TitleStyle.Render(checkbox)
	}

	submitStyle := components.SubmitStyle

	switch {
	case loading:
		submitStyle = components.SubmitDisabledStyle
	case f.active && f.focus == focusSubmit:
		submitStyle = components.SubmitFocusedStyle
	}

	rangeLine := strings.Join([]string{
		f.label("from", focusStartDate) + f.inputs[focusStartDate].View(),
		f.label("to", focusEndDate) + f.inputs[focusEndDate].View(),
		checkbox,
		submitStyle.Render("search"),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left, queryLine, rangeLine)
}

func (f Form) label(text string, field formFocus) string {
	if f.active && f.focus == field {
		return components.FormFocusedLabelStyle.Render(text)
	}

	return components.FormLabelStyle.Render(text)
}

// sync copies filter values into the inputs without moving the cursor when they already match
func (f Form) sync(filter query.Filter) Form {
	values := [...]string{filter.Query, filter.StartDate, filter.EndDate}

	for i := range f.inputs {
		if f.inputs[i].Value() != values[i] {
			f.inputs[i].SetValue(values[i])
		}
	}

	return f
}

func (f Form) applyFocus() Form {
	for i := range f.inputs {
		if f.active && int(f.focus) == i {
			_ = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}

	return f
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

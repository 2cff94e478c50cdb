package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/dispatch"
	"amtconsole/internal/model"
	"amtconsole/internal/util"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldAdmin
)

type formAction int

const (
	formKeep formAction = iota
	formSubmit
	formCancel
)

// userForm adds a user, or edits one when original is set. Empty inputs of
// an edit keep the original value.
type userForm struct {
	original model.Row
	inputs   []textinput.Model
	focus    int
	err      string
	busy     bool
	seq      uint64
}

func newUserForm(original model.Row) userForm {
	f := userForm{original: original}
	labels := []string{"username", "password", "admin"}
	for i, l := range labels {
		in := textinput.New()
		in.Prompt = padRight(l, 10) + " "
		in.CharLimit = 128
		if i == fieldPassword {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, in)
	}
	if original != nil {
		f.inputs[fieldUsername].Placeholder = original.ID()
		if pw, ok := original.Get("password"); ok {
			f.inputs[fieldPassword].Placeholder = util.Mask(pw)
		}
		if adm, ok := original.Get("is_admin"); ok {
			f.inputs[fieldAdmin].Placeholder = adm
		}
	} else {
		f.inputs[fieldAdmin].Placeholder = "false"
	}
	f.inputs[0].Focus()
	return f
}

func (f *userForm) editing() bool { return f.original != nil }

func (f *userForm) title() string {
	if f.editing() {
		return "Edit user " + f.original.ID()
	}
	return "Add user"
}

func (f *userForm) fields() dispatch.UserFields {
	return dispatch.UserFields{
		Username: strings.TrimSpace(f.inputs[fieldUsername].Value()),
		Password: f.inputs[fieldPassword].Value(),
		IsAdmin:  strings.TrimSpace(f.inputs[fieldAdmin].Value()),
	}
}

func (f *userForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focus = (i%n + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *userForm) update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	if f.busy {
		if msg.Type == tea.KeyEsc {
			return formCancel, nil
		}
		return formKeep, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return formCancel, nil
	case tea.KeyCtrlS:
		return formSubmit, nil
	case tea.KeyTab, tea.KeyDown:
		return formKeep, f.setFocus(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return formKeep, f.setFocus(f.focus - 1)
	case tea.KeyEnter:
		if f.focus == len(f.inputs)-1 {
			return formSubmit, nil
		}
		return formKeep, f.setFocus(f.focus + 1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formKeep, cmd
}

// validate reports a problem the backend would reject anyway.
func (f *userForm) validate() string {
	if !f.editing() && f.fields().Username == "" {
		return "username is required"
	}
	return ""
}

func (f *userForm) view(st Styles, spin string) string {
	lines := make([]string, 0, len(f.inputs)+4)
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "")
	switch {
	case f.busy:
		lines = append(lines, spin+" saving...")
	case f.err != "":
		lines = append(lines, st.Error.Render(f.err))
	}
	hint := "[tab]=next  [enter]=save on last field  [ctrl+s]=save  [esc]=cancel"
	if f.editing() {
		hint = "empty fields keep the current value\n" + hint
	}
	lines = append(lines, st.Help.Render(hint))
	return strings.Join(lines, "\n")
}

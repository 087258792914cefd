package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ridestats/internal/model"
)

const (
	fieldYear = iota
	fieldType
)

// settingsForm edits the year and activity type of the report.
type settingsForm struct {
	active bool
	inputs []textinput.Model
	focus  int
	err    string
}

func newSettingsForm() settingsForm {
	year := newInput("Year: ")
	year.Placeholder = "current"
	year.CharLimit = 4
	kind := newInput("Type: ")
	kind.Placeholder = "any"
	return settingsForm{inputs: []textinput.Model{year, kind}}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// open shows the form prefilled from opts.
func (f *settingsForm) open(opts model.Options) tea.Cmd {
	f.active = true
	f.err = ""
	year := ""
	if opts.Year > 0 {
		year = strconv.Itoa(opts.Year)
	}
	f.inputs[fieldYear].SetValue(year)
	f.inputs[fieldType].SetValue(strings.TrimSpace(opts.Type))
	return f.focusField(fieldYear)
}

func (f *settingsForm) close() {
	f.active = false
	f.err = ""
}

func (f *settingsForm) focusField(idx int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((idx % n) + n) % n
	var cmd tea.Cmd
	for i := range f.inputs {
		if i != f.focus {
			f.inputs[i].Blur()
			continue
		}
		cmd = f.inputs[i].Focus()
	}
	return cmd
}

func (f *settingsForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

// update handles a key while the form is open and reports whether it was
// submitted. A validation failure keeps the form open with f.err set.
func (f *settingsForm) update(msg tea.KeyMsg, opts *model.Options) (submitted bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.close()
		return false, nil
	case tea.KeyEnter:
		parsed, err := f.options(opts.Today)
		if err != nil {
			f.err = err.Error()
			return false, nil
		}
		*opts = parsed
		f.close()
		return true, nil
	case tea.KeyTab, tea.KeyDown:
		return false, f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return false, f.focusField(f.focus - 1)
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *settingsForm) options(today time.Time) (model.Options, error) {
	opts := model.Options{
		Type:  strings.TrimSpace(f.inputs[fieldType].Value()),
		Today: today,
	}
	raw := strings.TrimSpace(f.inputs[fieldYear].Value())
	if raw == "" {
		return opts, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return model.Options{}, fmt.Errorf("invalid year %q (use YYYY or leave empty for the current year)", raw)
	}
	opts.Year = year
	return opts, nil
}

func (f *settingsForm) view() string {
	lines := []string{headingStyle.Render("Settings")}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, errStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

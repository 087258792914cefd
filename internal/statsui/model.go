// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/ridestats/internal/model"
	"github.com/verte-zerg/ridestats/internal/stats"
)

const (
	tabOverview = iota
	tabHeatmap
	tabRideLengths
	tabMonthly
)

const (
	plotHeight     = 10
	fallbackWidth  = 80
	loadFailedText = "Failed to load activities."
)

var tabNames = []string{"Overview", "Heatmap", "Ride Lengths", "Monthly"}

// Model implements the Bubble Tea stats UI.
type Model struct {
	loader stats.Loader
	opts   model.Options
	keys   keyMap

	// activities is nil whenever the last load failed.
	activities []model.Activity
	report     stats.Report
	loadErr    error

	active int
	pages  []viewport.Model
	form   settingsForm

	width  int
	height int
}

// NewModel constructs a stats UI model and performs the initial load.
func NewModel(loader stats.Loader, opts model.Options) *Model {
	m := &Model{
		loader: loader,
		opts:   opts,
		keys:   defaultKeyMap(),
		pages:  make([]viewport.Model, len(tabNames)),
		form:   newSettingsForm(),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.fillPages()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.form.active {
			submitted, cmd := m.form.update(msg, &m.opts)
			if submitted && m.loadErr == nil {
				m.recompute()
			}
			m.resize()
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active + len(tabNames) - 1) % len(tabNames)
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % len(tabNames)
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.OlderYr):
		m.stepYear(-1)
	case key.Matches(msg, m.keys.NewerYr):
		m.stepYear(1)
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.resize()
	case key.Matches(msg, m.keys.Settings):
		cmd := m.form.open(m.opts)
		m.resize()
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.pages[m.active].GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.pages[m.active].GotoBottom()
	default:
		var cmd tea.Cmd
		m.pages[m.active], cmd = m.pages[m.active].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerH, bodyH, footerH := m.heights()
	var body string
	if m.form.active {
		body = m.form.view()
	} else {
		body = m.pages[m.active].View()
	}
	return strings.Join([]string{
		fitBlock(m.header(), m.width, headerH),
		fitBlock(body, m.width, bodyH),
		fitBlock(m.footer(), m.width, footerH),
	}, "\n")
}

func (m *Model) heights() (header, body, footer int) {
	header = lipgloss.Height(tabActiveStyle.Render("X")) + 1
	footer = 1
	if !m.form.active && m.loadErr != nil {
		footer++
	}
	body = max(m.height-header-footer, 1)
	return header, body, footer
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyH, _ := m.heights()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = bodyH
	}
	m.form.setWidth(m.width)
}

func (m *Model) header() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := tabIdleStyle
		if i == m.active {
			style = tabActiveStyle
		}
		tabs[i] = style.Render(name)
	}
	row := padBlock(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width)
	return row + "\n" + hintStyle.Render(clip(m.selectionSummary(), m.width))
}

func (m *Model) selectionSummary() string {
	year := "current"
	if m.opts.Year > 0 {
		year = strconv.Itoa(m.opts.Year)
	}
	kind := m.opts.Type
	if kind == "" {
		kind = "any"
	}
	available := "none"
	if m.loadErr == nil && len(m.report.Years) > 0 {
		years := make([]string, len(m.report.Years))
		for i, y := range m.report.Years {
			years[i] = strconv.Itoa(y)
		}
		available = strings.Join(years, ",")
	}
	return fmt.Sprintf("Settings: year=%s  type=%s  available=%s", year, kind, available)
}

func (m *Model) footer() string {
	if m.form.active {
		return hintStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  ctrl+c: quit")
	}
	help := hintStyle.Render(m.keys.helpLine())
	if m.loadErr != nil {
		return help + "\n" + errStyle.Render(m.loadErr.Error())
	}
	return help
}

// reload reads the collection from the loader and rebuilds the report.
// On failure every tab shows the load error instead of stale data.
func (m *Model) reload() {
	activities, err := m.loader.Load(context.Background())
	if err != nil {
		log.WithError(err).Warn("dashboard load failed")
		m.activities = nil
		m.report = stats.Report{}
		m.loadErr = err
		m.fillPages()
		return
	}
	m.loadErr = nil
	m.activities = activities
	m.recompute()
}

func (m *Model) recompute() {
	m.report = stats.BuildReportFrom(m.activities, m.opts)
	m.opts.Year = m.report.Options.Year
	m.fillPages()
}

// stepYear moves to the nearest older (delta < 0) or newer year that has data.
func (m *Model) stepYear(delta int) {
	if m.loadErr != nil {
		return
	}
	if target := adjacentYear(m.report.Years, m.report.Options.Year, delta); target != 0 {
		m.opts.Year = target
		m.recompute()
	}
}

func adjacentYear(years []int, current, delta int) int {
	best := 0
	for _, y := range years {
		switch {
		case delta < 0 && y < current && y > best:
			best = y
		case delta > 0 && y > current && (best == 0 || y < best):
			best = y
		}
	}
	return best
}

func (m *Model) fillPages() {
	if m.loadErr != nil {
		for i := range m.pages {
			m.pages[i].SetContent(loadFailedText)
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	m.pages[tabOverview].SetContent(overviewView(m.report, width))
	m.pages[tabHeatmap].SetContent(heatmapView(m.report.Heatmap))
	m.pages[tabRideLengths].SetContent(rideLengthsView(m.report.Histogram, width))
	m.pages[tabMonthly].SetContent(monthlyView(m.report.Monthly, width))
}

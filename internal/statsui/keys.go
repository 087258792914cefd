package statsui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	PrevTab  key.Binding
	NextTab  key.Binding
	OlderYr  key.Binding
	NewerYr  key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Settings key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevTab:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		NextTab:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		OlderYr:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "older year")),
		NewerYr:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "newer year")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Settings: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpLine renders the short help shown in the footer.
func (k keyMap) helpLine() string {
	bindings := []key.Binding{k.PrevTab, k.NextTab, k.OlderYr, k.NewerYr, k.Settings, k.Reload, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Ready       lipgloss.Style
	Key         lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	TableStyles TableStyles
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
}

type TableStyles struct {
	Header         lipgloss.Style
	Cell           lipgloss.Style
	Selected       lipgloss.Style
	HeaderSelected lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("150"))
		s.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
		s.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
		s.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	s.Ready = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	s.TableStyles = TableStyles{
		Header:         lipgloss.NewStyle().Bold(true),
		Cell:           lipgloss.NewStyle(),
		Selected:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		HeaderSelected: lipgloss.NewStyle().Underline(true),
	}
	return s
}

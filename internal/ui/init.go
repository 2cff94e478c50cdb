package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"amtconsole/internal/backend"
	"amtconsole/internal/config"
	"amtconsole/internal/dispatch"
	"amtconsole/internal/filter"
	"amtconsole/internal/ingest"
	"amtconsole/internal/model"
)

func newTableView(title, path string, demo ingest.DemoTable, attrs model.AttributeSet, capacity int) *tableView {
	return &tableView{
		title: title,
		path:  path,
		demo:  demo,
		store: model.NewStore(capacity),
		state: filter.New(attrs),
		dirty: true,
	}
}

func initialModel(ctx context.Context, cfg *config.Config, client *backend.Client) *Model {
	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		client: client,
		dispatch: dispatch.New(ctx, client, dispatch.Options{
			PollInterval: cfg.PollInterval,
			PollAttempts: cfg.PollAttempts,
		}),
		help:   help.New(),
		styles: NewStyles(cfg.Theme == config.ThemeDark),
		keymap: DefaultKeyMap(),
		search: textinput.New(),
		spin:   spinner.New(),
	}
	m.views[viewHITs] = newTableView("HITs", cfg.HITsPath, ingest.DemoHITs, model.HITAttributes(), cfg.MaxRows)
	m.views[viewUsers] = newTableView("Users", cfg.UsersPath, ingest.DemoUsers, model.UserAttributes(), cfg.MaxRows)
	if cfg.View == config.ViewUsers {
		m.cur = viewUsers
	}
	m.spin.Spinner = spinner.Dot
	m.search.CharLimit = 256
	m.search.Prompt = ""
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	// Remove default padding to make width math exact
	ts := table.DefaultStyles()
	ts.Header = lipgloss.NewStyle().PaddingRight(1).Bold(true)
	ts.Cell = lipgloss.NewStyle().PaddingRight(1)
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)
	m.refreshFiltered()
	return m
}

// Run starts the console and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg *config.Config) error {
	client, err := backend.New(backend.Options{BaseURL: cfg.ServerURL, Timeout: cfg.Timeout(), Insecure: cfg.Insecure})
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	m := initialModel(ctx, cfg, client)
	defer m.stopIngest()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	for _, v := range m.views {
		m.startIngest(v)
	}
	return tea.Batch(tick(), m.spin.Tick)
}

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/backend"
	"amtconsole/internal/config"
	"amtconsole/internal/dispatch"
	"amtconsole/internal/filter"
	"amtconsole/internal/ingest"
	"amtconsole/internal/model"
)

type viewKind int

const (
	viewHITs viewKind = iota
	viewUsers
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalLogs
	modalFilter
	modalColumns
	modalForm
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineExpr
	inlineConfirm
)

// tableView is one admin table with its own rows, filter and sort.
type tableView struct {
	title string
	path  string
	demo  ingest.DemoTable

	store    *model.Store
	state    filter.State
	expr     *filter.Expr
	sortKey  string
	sortRev  bool
	filtered []model.Row
	selCol   int // index into visible columns
	cursor   int

	// cancel function for the current ingest; reload restarts it
	cancel  context.CancelFunc
	batches <-chan ingest.Batch
	errs    <-chan error
	loaded  bool
	dirty   bool
}

type Model struct {
	ctx      context.Context
	cfg      *config.Config
	client   *backend.Client
	dispatch *dispatch.Dispatcher

	views [2]*tableView
	cur   viewKind

	// UI
	tbl        table.Model
	help       help.Model
	styles     Styles
	search     textinput.Model
	spin       spinner.Model
	keymap     KeyMap
	termWidth  int
	termHeight int

	inlineMode inlineMode
	lastMsg    string

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	menuSel     int

	// Help menu state
	helpItems []helpItem
	helpSel   int

	form    userForm
	formSeq uint64

	showPasswords bool

	// HIT export
	exportBusy  bool
	exportReady bool
	exportLink  string
	downBusy    bool
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type tickMsg struct{}

type downloadDoneMsg struct {
	rows int
	path string
	err  error
}

func (m *Model) view() *tableView { return m.views[m.cur] }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}

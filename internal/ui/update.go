package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/dispatch"
	"amtconsole/internal/export"
	"amtconsole/internal/filter"
	"amtconsole/internal/model"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	items := []helpItem{
		{group: "Navigation", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},
		{group: "Navigation", text: "Previous column", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navigation", text: "Next column", key: tea.Key{Type: tea.KeyRight}},
		{group: "Navigation", text: "Switch HITs/Users", key: km.SwitchView},

		{group: "Table", text: "Sort by column (again to reverse)", key: km.Sort},
		{group: "Table", text: "Show/hide columns", key: km.Columns},
		{group: "Table", text: "Inspect row", key: km.Inspect},

		{group: "Filter", text: "Search", key: km.Search},
		{group: "Filter", text: "Filter attributes", key: km.Filter},
		{group: "Filter", text: "Expression", key: km.Expr},
		{group: "Filter", text: "Clear search and expression", key: km.ClearFilter},
	}
	if m.cur == viewHITs {
		items = append(items,
			helpItem{group: "HITs", text: "Export visible HITs", key: km.Export},
			helpItem{group: "HITs", text: "Download ready export", key: km.Download},
			helpItem{group: "HITs", text: "Copy export link", key: km.CopyLink},
		)
	} else {
		items = append(items,
			helpItem{group: "Users", text: "Add user", key: km.Add},
			helpItem{group: "Users", text: "Edit user", key: km.Edit},
			helpItem{group: "Users", text: "Delete user", key: km.Delete},
			helpItem{group: "Users", text: "Show/mask passwords", key: km.Passwords},
		)
	}
	items = append(items,
		helpItem{group: "Control", text: "Reload rows", key: km.Reload},
		helpItem{group: "Control", text: "Application logs", key: km.AppLogs},
		helpItem{group: "Control", text: "Help", key: km.Help},
		helpItem{group: "Control", text: "Quit", key: km.Quit},
	)
	return items
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// reserve tabs, sub-status and status lines
		h := msg.Height - 4
		if h < 1 {
			h = 1
		}
		m.tbl.SetHeight(h)
		m.tbl.SetWidth(msg.Width)
		m.refreshFiltered()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if m.modalActive {
			return m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m.updateInline(msg)
		}
		if next, cmd, ok := m.updateShortcut(msg); ok {
			return next, cmd
		}
	case tickMsg:
		for _, v := range m.views {
			m.drain(v)
		}
		if m.view().dirty {
			m.refreshFiltered()
		}
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case dispatch.ReloadMsg:
		log.Infof("%s done, reloading users", msg.Op)
		if m.awaitingForm(msg.Seq) {
			m.closeModal()
		}
		m.lastMsg = msg.Op + " done"
		m.startIngest(m.views[viewUsers])
		return m, nil
	case dispatch.ActionErrorMsg:
		if m.awaitingForm(msg.Seq) {
			m.form.busy = false
			m.form.err = msg.Message
		} else {
			m.lastMsg = fmt.Sprintf("%s failed: %s", msg.Op, msg.Message)
		}
		return m, nil
	case dispatch.ExportReadyMsg:
		m.exportBusy = false
		m.exportReady = true
		m.exportLink = msg.Link
		m.lastMsg = "download ready: " + msg.Link
		return m, nil
	case dispatch.ExportFailedMsg:
		m.exportBusy = false
		m.lastMsg = "export failed: " + msg.Err.Error()
		return m, nil
	case downloadDoneMsg:
		m.downBusy = false
		if msg.err != nil {
			log.Errorf("download: %v", msg.err)
			m.lastMsg = "download failed: " + msg.err.Error()
		} else {
			log.Infof("download: wrote %d rows to %s (%s)", msg.rows, msg.path, m.cfg.ExportFormat)
			m.lastMsg = fmt.Sprintf("saved %d HITs to %s", msg.rows, msg.path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	// Clamp cursor to avoid wrap-around behavior
	if n := len(m.tbl.Rows()); n > 0 {
		if m.tbl.Cursor() < 0 {
			m.tbl.SetCursor(0)
		}
		if m.tbl.Cursor() >= n {
			m.tbl.SetCursor(n - 1)
		}
	}
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalKind {
	case modalForm:
		return m.updateForm(msg)
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			m.closeModal()
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?":
			m.closeModal()
		}
		return m, nil
	case modalFilter, modalColumns:
		n := len(m.menuKeys())
		switch {
		case msg.Type == tea.KeyUp:
			if m.menuSel > 0 {
				m.menuSel--
			}
		case msg.Type == tea.KeyDown:
			if m.menuSel+1 < n {
				m.menuSel++
			}
		case msg.Type == tea.KeyEnter || msg.String() == " ":
			m.toggleMenuItem()
		case msg.Type == tea.KeyEsc || msg.String() == "q",
			m.modalKind == modalFilter && keyMatches(msg, m.keymap.Filter),
			m.modalKind == modalColumns && keyMatches(msg, m.keymap.Columns):
			m.closeModal()
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || msg.String() == "q" {
		m.closeModal()
		return m, nil
	}
	if msg.String() == "c" || msg.String() == "C" {
		copyToClipboard(m.modalBody)
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) toggleMenuItem() {
	keys := m.menuKeys()
	if m.menuSel < 0 || m.menuSel >= len(keys) {
		return
	}
	v := m.view()
	k := keys[m.menuSel]
	if m.modalKind == modalFilter {
		v.state = filter.Transition(v.state, filter.Toggle(k))
	} else {
		v.state = filter.Transition(v.state, filter.ToggleColumn(k))
	}
	m.refreshFiltered()
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.form.update(msg)
	switch action {
	case formCancel:
		m.closeModal()
		return m, nil
	case formSubmit:
		if e := m.form.validate(); e != "" {
			m.form.err = e
			return m, nil
		}
		m.formSeq++
		m.form.seq = m.formSeq
		m.form.busy = true
		m.form.err = ""
		if m.form.editing() {
			return m, m.dispatch.UpdateRow(m.form.seq, m.form.original, m.form.fields())
		}
		return m, m.dispatch.AddRow(m.form.seq, m.form.fields())
	}
	return m, cmd
}

// awaitingForm reports whether the open form is waiting on submission seq.
// Results of a cancelled or earlier form only refresh the status line.
func (m *Model) awaitingForm(seq uint64) bool {
	return m.modalActive && m.modalKind == modalForm && m.form.busy && seq != 0 && seq == m.form.seq
}

func (m *Model) updateInline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.view()
	switch m.inlineMode {
	case inlineConfirm:
		m.inlineMode = inlineNone
		if msg.String() != "y" {
			m.lastMsg = "delete cancelled"
			return m, nil
		}
		r, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.lastMsg = "deleting " + r.ID()
		return m, m.dispatch.DeleteRow(r.ID())
	case inlineSearch:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.inlineMode = inlineNone
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if q := m.search.Value(); q != v.state.Text() {
			v.state = filter.Transition(v.state, filter.Search(q))
			m.refreshFiltered()
		}
		return m, cmd
	case inlineExpr:
		switch msg.Type {
		case tea.KeyEsc:
			m.inlineMode = inlineNone
			m.search.Blur()
			return m, nil
		case tea.KeyEnter:
			e, err := filter.NewExpr(m.search.Value())
			if err != nil {
				m.lastMsg = err.Error()
				return m, nil
			}
			v.expr = e
			m.inlineMode = inlineNone
			m.search.Blur()
			m.lastMsg = ""
			m.refreshFiltered()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateShortcut handles keys outside modals and inline inputs. ok is false
// when the key should fall through to the table.
func (m *Model) updateShortcut(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	v := m.view()
	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return m, tea.Quit, true
	case keyMatches(msg, km.SwitchView):
		v.cursor = m.tbl.Cursor()
		m.cur = (m.cur + 1) % viewKind(len(m.views))
		m.refreshFiltered()
		m.tbl.SetCursor(m.view().cursor)
		return m, nil, true
	case msg.Type == tea.KeyLeft:
		if v.selCol > 0 {
			v.selCol--
			m.refreshFiltered()
		}
		return m, nil, true
	case msg.Type == tea.KeyRight:
		if v.selCol+1 < len(m.visibleColumns()) {
			v.selCol++
			m.refreshFiltered()
		}
		return m, nil, true
	case keyMatches(msg, km.Sort):
		if c, ok := m.selectedColumn(); ok {
			if v.sortKey == c {
				v.sortRev = !v.sortRev
			} else {
				v.sortKey, v.sortRev = c, false
			}
			m.refreshFiltered()
		}
		return m, nil, true
	case keyMatches(msg, km.Columns):
		m.openMenu(modalColumns)
		return m, nil, true
	case keyMatches(msg, km.Filter):
		m.openMenu(modalFilter)
		return m, nil, true
	case keyMatches(msg, km.Search):
		m.inlineMode = inlineSearch
		m.search.Placeholder = "text"
		m.search.SetValue(v.state.Text())
		m.search.CursorEnd()
		return m, m.search.Focus(), true
	case keyMatches(msg, km.Expr):
		m.inlineMode = inlineExpr
		m.search.Placeholder = "completed == 'True' && type == 'img'"
		m.search.SetValue(v.expr.String())
		m.search.CursorEnd()
		return m, m.search.Focus(), true
	case keyMatches(msg, km.ClearFilter):
		v.state = filter.Transition(v.state, filter.Search(""))
		v.expr = nil
		m.lastMsg = "filter cleared"
		m.refreshFiltered()
		return m, nil, true
	case keyMatches(msg, km.Inspect):
		m.openInspectorModal()
		return m, nil, true
	case keyMatches(msg, km.AppLogs):
		m.openAppLogsModal()
		return m, nil, true
	case keyMatches(msg, km.Help):
		m.openHelpModal()
		return m, nil, true
	case keyMatches(msg, km.Reload):
		m.startIngest(v)
		m.lastMsg = "reloading " + v.title
		return m, nil, true
	case keyMatches(msg, km.Top):
		m.tbl.SetCursor(0)
		return m, nil, true
	case keyMatches(msg, km.Bottom):
		if n := len(m.tbl.Rows()); n > 0 {
			m.tbl.SetCursor(n - 1)
		}
		return m, nil, true
	}
	if m.cur == viewHITs {
		return m.updateHITKey(msg)
	}
	return m.updateUserKey(msg)
}

func (m *Model) updateHITKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	km := m.keymap
	switch {
	case keyMatches(msg, km.Export):
		if m.exportBusy {
			m.lastMsg = "export already in progress"
			return m, nil, true
		}
		ids := visibleIDs(m.view().filtered)
		m.exportBusy = true
		m.exportReady = false
		m.exportLink = ""
		m.lastMsg = fmt.Sprintf("preparing export of %d HITs", len(ids))
		return m, m.dispatch.RequestExport(ids), true
	case keyMatches(msg, km.Download):
		return m, m.download(), true
	case keyMatches(msg, km.CopyLink):
		if m.exportLink == "" {
			m.lastMsg = "no export link yet"
		} else {
			copyToClipboard(m.exportLink)
			m.lastMsg = "copied export link"
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m *Model) updateUserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	km := m.keymap
	switch {
	case keyMatches(msg, km.Add):
		m.openForm(nil)
		return m, nil, true
	case keyMatches(msg, km.Edit):
		if r, ok := m.selectedRow(); ok {
			m.openForm(r.Clone())
		}
		return m, nil, true
	case keyMatches(msg, km.Delete):
		if _, ok := m.selectedRow(); ok {
			m.inlineMode = inlineConfirm
		}
		return m, nil, true
	case keyMatches(msg, km.Passwords):
		m.showPasswords = !m.showPasswords
		m.refreshFiltered()
		return m, nil, true
	}
	return m, nil, false
}

// download saves the ready export with the configured format and path.
func (m *Model) download() tea.Cmd {
	switch {
	case !m.exportReady:
		m.lastMsg = "no export ready; press " + keyLabel(m.keymap.Export) + " first"
		return nil
	case m.cfg.ExportFormat == "" || m.cfg.ExportOut == "":
		m.lastMsg = "use --export and --out to download"
		return nil
	case m.downBusy:
		return nil
	}
	m.downBusy = true
	m.lastMsg = "downloading " + m.exportLink
	ctx, client, link := m.ctx, m.client, m.exportLink
	format, path := strings.ToLower(m.cfg.ExportFormat), m.cfg.ExportOut
	attrs := m.views[viewHITs].state.Attributes()
	return func() tea.Msg {
		rows, err := export.Fetch(ctx, client, link)
		if err == nil {
			err = export.Write(format, path, rows, attrs)
		}
		return downloadDoneMsg{rows: len(rows), path: path, err: err}
	}
}

func (m *Model) selectedRow() (model.Row, bool) {
	v := m.view()
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(v.filtered) {
		return nil, false
	}
	return v.filtered[idx], true
}

func visibleIDs(rows []model.Row) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id := r.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

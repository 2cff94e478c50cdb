package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"amtconsole/internal/model"
	"amtconsole/internal/util/logx"
)

func (m *Model) View() string {
	v := m.renderMain()
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.views))
	for i, v := range m.views {
		label := fmt.Sprintf(" %s (%d) ", v.title, len(v.filtered))
		if viewKind(i) == m.cur {
			parts = append(parts, m.styles.TabActive.Render("["+strings.TrimSpace(label)+"]"))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderMain() string {
	v := m.view()
	tv := m.tbl.View()

	var bottom string
	switch m.inlineMode {
	case inlineSearch:
		bottom = fmt.Sprintf("search %s: %s    [enter/esc]=done", v.state.Label(), m.search.View())
	case inlineExpr:
		bottom = fmt.Sprintf("expr: %s    [enter]=apply [esc]=cancel", m.search.View())
	case inlineConfirm:
		id := ""
		if r, ok := m.selectedRow(); ok {
			id = r.ID()
		}
		bottom = fmt.Sprintf("delete user %q? [y]=yes, any other key cancels", id)
	default:
		var parts []string
		if t := v.state.Text(); t != "" {
			parts = append(parts, fmt.Sprintf("filter %s: %s", v.state.Label(), t))
		} else if !v.state.AnyMode() {
			parts = append(parts, fmt.Sprintf("filter %s", v.state.Label()))
		}
		if v.expr != nil {
			parts = append(parts, "expr: "+v.expr.String())
		}
		if len(parts) > 0 {
			bottom = strings.Join(parts, "  ") + "    [F]=clear"
		}
	}
	if bottom == "" && m.termWidth > 0 {
		// keep the layout stable
		bottom = strings.Repeat(" ", m.termWidth)
	}

	cur := 0
	if n := len(v.filtered); n > 0 {
		cur = m.tbl.Cursor() + 1
		if cur > n {
			cur = n
		}
	}
	_, total, dropped := v.store.Snapshot()
	status := fmt.Sprintf("row:%d/%d loaded:%d", cur, len(v.filtered), total)
	if dropped > 0 {
		status += fmt.Sprintf(" dropped:%d", dropped)
	}
	if !v.loaded {
		status += " " + m.spin.View() + " loading"
	}
	if m.cur == viewHITs {
		switch {
		case m.exportBusy:
			status += " | export: " + m.spin.View() + " preparing"
		case m.exportReady:
			status += " | export: " + m.styles.Ready.Render("ready")
		}
	}
	if m.cur == viewUsers && m.showPasswords {
		status += " | passwords shown"
	}
	if m.lastMsg != "" {
		status += " | " + truncateRunes(m.lastMsg, 96)
	}
	status = m.styles.Status.Render(status) + "  " + m.help.ShortHelpView(m.shortHelp())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), tv, bottom, status)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "")
			lines = append(lines, currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	m.keepVisible(lineIndexOfSel)
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

// keepVisible scrolls the modal viewport so line stays on screen.
func (m *Model) keepVisible(line int) {
	if m.modalVP.Height <= 0 {
		return
	}
	top := m.modalVP.YOffset
	bottom := top + m.modalVP.Height - 1
	if line <= top {
		if line-1 >= 0 {
			m.modalVP.YOffset = line - 1
		} else {
			m.modalVP.YOffset = 0
		}
	} else if line >= bottom {
		m.modalVP.YOffset = line - m.modalVP.Height + 2
		if m.modalVP.YOffset < 0 {
			m.modalVP.YOffset = 0
		}
	}
}

// menuKeys lists the entries of the open filter or column menu.
func (m *Model) menuKeys() []string {
	keys := m.view().state.Attributes().Keys()
	if m.modalKind == modalFilter {
		return append([]string{model.AnyKey}, keys...)
	}
	return keys
}

func (m *Model) renderMenu() string {
	st := m.view().state
	attrs := st.Attributes()
	keys := m.menuKeys()
	lines := make([]string, 0, len(keys))
	for i, k := range keys {
		var on bool
		label := attrs.Label(k)
		if m.modalKind == modalFilter {
			on = st.IsActive(k)
			if k == model.AnyKey {
				label = "Any visible column"
			}
		} else {
			on = attrs[attrs.Index(k)].Visible
		}
		box := "[ ]"
		if on {
			box = "[x]"
		}
		prefix := "  "
		if i == m.menuSel {
			prefix = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", prefix, box, label))
	}
	m.keepVisible(m.menuSel)
	return strings.Join(lines, "\n")
}

func (m *Model) menuTitle() string {
	if m.modalKind == modalFilter {
		return "Filter: " + m.view().state.Label()
	}
	return "Columns"
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openMenu(kind modalKind) {
	m.modalActive = true
	m.modalKind = kind
	m.menuSel = 0
	m.modalTitle = m.menuTitle()
	m.modalBody = m.renderMenu()
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	m.modalActive = true
	m.modalKind = modalInspector
	kind := "HIT"
	if m.cur == viewUsers {
		kind = "User"
	}
	m.modalTitle = kind + " " + r.ID()
	m.modalBody = renderRow(r, m.view().state.Attributes(), m.styles, m.termWidth-14, m.showPasswords)
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) openForm(original model.Row) {
	m.form = newUserForm(original)
	m.modalActive = true
	m.modalKind = modalForm
	m.modalTitle = m.form.title()
	m.resizeModal()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
	case modalFilter, modalColumns:
		m.modalVP.SetContent(m.renderMenu())
	default:
		m.modalVP.SetContent(m.modalBody)
	}
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalFilter:
		m.modalTitle = m.menuTitle()
		m.modalVP.SetContent(m.renderMenu())
		content = m.modalVP.View() + "\n[space/enter]=toggle  [esc]=close"
	case modalColumns:
		m.modalVP.SetContent(m.renderMenu())
		content = m.modalVP.View() + "\n[space/enter]=show/hide  [esc]=close"
	case modalForm:
		content = m.form.view(m.styles, m.spin.View())
	case modalInspector:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalLogs:
		v := m.view()
		_, total, dropped := v.store.Snapshot()
		header := []string{
			"Status:",
			fmt.Sprintf("server: %s", m.cfg.ServerURL),
			fmt.Sprintf("%s: rows %d  shown %d  dropped %d", v.title, total, len(v.filtered), dropped),
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

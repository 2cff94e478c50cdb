package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/backend"
	"amtconsole/internal/config"
	"amtconsole/internal/dispatch"
	"amtconsole/internal/model"
)

func newTestModel(t *testing.T, h http.HandlerFunc) *Model {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := &config.Config{
		ServerURL:    srv.URL,
		View:         config.ViewHITs,
		Theme:        config.ThemeDark,
		MaxRows:      100,
		PollInterval: time.Millisecond,
		PollAttempts: 3,
	}
	m := initialModel(ctx, cfg, client)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Init()
	t.Cleanup(m.stopIngest)

	deadline := time.Now().Add(2 * time.Second)
	for !(m.views[viewHITs].loaded && m.views[viewUsers].loaded) {
		if time.Now().After(deadline) {
			t.Fatalf("demo rows did not load")
		}
		m.Update(tickMsg{})
		time.Sleep(5 * time.Millisecond)
	}
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, last = m.Update(msg)
	}
	return last
}

func TestDemoRowsFillBothViews(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	if got := len(m.views[viewHITs].filtered); got != 5 {
		t.Fatalf("hits: %d", got)
	}
	if got := len(m.tbl.Rows()); got != 5 {
		t.Fatalf("table rows: %d", got)
	}
	if !strings.Contains(m.View(), "HITs (5)") {
		t.Fatalf("tab counts missing from view")
	}
}

func TestSearchFiltersOnEveryKeystroke(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "/", "d")
	if got := len(m.view().filtered); got != 1 {
		t.Fatalf("after 'd': %d rows", got)
	}
	press(m, "o", "g")
	v := m.view()
	if len(v.filtered) != 1 || v.filtered[0].ID() != "5" {
		t.Fatalf("after 'dog': %v", v.filtered)
	}
	if v.state.Text() != "dog" {
		t.Fatalf("state text: %q", v.state.Text())
	}
	press(m, "enter")
	if m.inlineMode != inlineNone {
		t.Fatalf("search still editing")
	}
	press(m, "F")
	if len(m.view().filtered) != 5 {
		t.Fatalf("clear did not restore rows")
	}
}

func TestFilterMenuTogglesAttribute(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "f")
	if !m.modalActive || m.modalKind != modalFilter {
		t.Fatalf("filter menu not open")
	}
	press(m, "down", "space")
	st := m.view().state
	if st.AnyMode() || !st.IsActive("id") || st.Label() != "ID" {
		t.Fatalf("active: %v label %q", st.Active(), st.Label())
	}
	if !strings.Contains(m.renderModal(), "Filter: ID") {
		t.Fatalf("menu title does not follow the label")
	}
	press(m, "esc", "/", "3")
	if got := m.view().filtered; len(got) != 1 || got[0].ID() != "3" {
		t.Fatalf("id filter: %v", got)
	}
}

func TestColumnMenuHidesColumn(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "c", "space", "esc")
	cols := m.visibleColumns()
	if len(cols) != 3 || cols[0] != "type" {
		t.Fatalf("visible: %v", cols)
	}
}

func TestSortTogglesDirection(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "s")
	v := m.view()
	if v.sortKey != "id" || v.sortRev || v.filtered[0].ID() != "1" {
		t.Fatalf("asc: key=%q rev=%v first=%s", v.sortKey, v.sortRev, v.filtered[0].ID())
	}
	press(m, "s")
	if !v.sortRev || v.filtered[0].ID() != "5" {
		t.Fatalf("desc: rev=%v first=%s", v.sortRev, v.filtered[0].ID())
	}
	press(m, "right", "s")
	if v.sortKey != "type" || v.sortRev {
		t.Fatalf("new column should sort ascending: key=%q rev=%v", v.sortKey, v.sortRev)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	deleted := make(chan string, 1)
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == dispatch.PathDelete {
			_ = r.ParseForm()
			deleted <- r.PostForm.Get("user")
		}
	})
	press(m, "tab")
	if m.cur != viewUsers {
		t.Fatalf("tab did not switch views")
	}
	if cmd := press(m, "d", "n"); cmd != nil {
		t.Fatalf("cancelled delete returned a command")
	}
	cmd := press(m, "d", "y")
	if cmd == nil {
		t.Fatalf("confirmed delete returned no command")
	}
	if _, ok := cmd().(dispatch.ReloadMsg); !ok {
		t.Fatalf("expected reload")
	}
	select {
	case id := <-deleted:
		if id != "admin" {
			t.Fatalf("deleted %q", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("no delete request")
	}
}

func TestActionErrorStaysInForm(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "tab", "a")
	if m.modalKind != modalForm {
		t.Fatalf("form not open")
	}
	press(m, "b", "o", "b")
	if cmd := press(m, "ctrl+s"); cmd == nil || !m.form.busy {
		t.Fatalf("submit did not start")
	}
	seq := m.form.seq
	m.Update(dispatch.ActionErrorMsg{Op: "add", Message: "username taken", Seq: seq})
	if !m.modalActive || m.form.err != "username taken" || m.form.busy {
		t.Fatalf("form: active=%v err=%q busy=%v", m.modalActive, m.form.err, m.form.busy)
	}
	press(m, "ctrl+s")
	if m.form.seq == seq {
		t.Fatalf("resubmit reused seq %d", seq)
	}
	m.Update(dispatch.ReloadMsg{Op: "add", Seq: m.form.seq})
	if m.modalActive {
		t.Fatalf("reload should close the form")
	}
}

func TestStaleResultLeavesReopenedFormAlone(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "tab", "a", "b", "o", "b")
	if cmd := press(m, "ctrl+s"); cmd == nil || !m.form.busy {
		t.Fatalf("submit did not start")
	}
	stale := m.form.seq
	press(m, "esc")
	if m.modalActive {
		t.Fatalf("esc did not close the busy form")
	}

	press(m, "u", "n", "e", "w")
	if m.modalKind != modalForm || !m.form.editing() {
		t.Fatalf("edit form not open")
	}
	m.Update(dispatch.ActionErrorMsg{Op: "add", Message: "username taken", Seq: stale})
	if m.form.err != "" {
		t.Fatalf("stale error landed in the edit form: %q", m.form.err)
	}
	if !strings.Contains(m.lastMsg, "add failed: username taken") {
		t.Fatalf("status: %q", m.lastMsg)
	}
	m.Update(dispatch.ReloadMsg{Op: "add", Seq: stale})
	if !m.modalActive || m.modalKind != modalForm {
		t.Fatalf("stale reload closed the edit form")
	}
	if got := m.form.inputs[fieldUsername].Value(); got != "new" {
		t.Fatalf("typed value lost: %q", got)
	}
	if m.lastMsg != "add done" {
		t.Fatalf("status: %q", m.lastMsg)
	}
}

func TestPasswordsMaskedUntilToggled(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	press(m, "tab")
	if cell := m.tbl.Rows()[1][1]; cell == "s3cret" {
		t.Fatalf("password shown while masked")
	}
	press(m, "p")
	if cell := m.tbl.Rows()[1][1]; cell != "s3cret" {
		t.Fatalf("password cell: %q", cell)
	}
}

func TestExportLifecycle(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	if cmd := press(m, "D"); cmd != nil {
		t.Fatalf("download before export")
	}
	if cmd := press(m, "e"); cmd == nil || !m.exportBusy {
		t.Fatalf("export not started")
	}
	if !strings.Contains(m.renderMain(), "preparing") {
		t.Fatalf("status lacks preparing")
	}
	m.Update(dispatch.ExportReadyMsg{Link: "http://x/static/UserSavedTables/filtered_hits1.txt"})
	if m.exportBusy || !m.exportReady || m.exportLink == "" {
		t.Fatalf("ready: busy=%v ready=%v link=%q", m.exportBusy, m.exportReady, m.exportLink)
	}
	if !strings.Contains(m.renderMain(), "ready") {
		t.Fatalf("status lacks ready")
	}
}

func TestRenderRowMarksAbsentFields(t *testing.T) {
	out := stripANSI(renderRow(model.Row{"id": "7", "question": ""}, model.HITAttributes(), NewStyles(true), 80, false))
	if !strings.Contains(out, "(absent)") || !strings.Contains(out, `""`) {
		t.Fatalf("render:\n%s", out)
	}
	if !strings.HasPrefix(out, "ID") {
		t.Fatalf("attribute order not kept:\n%s", out)
	}
}

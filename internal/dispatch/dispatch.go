// Package dispatch runs the row-level actions of the management tables
// against the backend. Every action is a tea.Cmd; the message it yields is the
// completion callback the UI reacts to.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/backend"
	"amtconsole/internal/model"
	"amtconsole/internal/util/logx"
)

const (
	PathDelete = "/delUser"
	PathAdd    = "/addUser"
	PathUpdate = "/updateUser"
	PathExport = "/downloadTable"
)

var log = logx.Named("dispatch")

// Poster is the slice of the backend client the dispatcher needs.
type Poster interface {
	PostForm(ctx context.Context, path string, values url.Values) (backend.Response, error)
	Get(ctx context.Context, path string) (backend.Response, error)
	Resolve(ref string) (string, error)
}

// ReloadMsg asks the view to reload its rows. Seq echoes the submission that
// produced it; deletes carry zero.
type ReloadMsg struct {
	Op  string
	Seq uint64
}

// ActionErrorMsg carries the backend's error payload for display.
type ActionErrorMsg struct {
	Op      string
	Message string
	Seq     uint64
}

type ExportReadyMsg struct{ Link string }

type ExportFailedMsg struct{ Err error }

// UserFields is the add/edit user form. Empty fields on edit fall back to the
// row being edited.
type UserFields struct {
	Username string
	Password string
	IsAdmin  string
}

type Options struct {
	PollInterval time.Duration
	PollAttempts int
}

type Dispatcher struct {
	ctx    context.Context
	client Poster
	opt    Options
}

func New(ctx context.Context, client Poster, opt Options) *Dispatcher {
	if opt.PollInterval <= 0 {
		opt.PollInterval = 500 * time.Millisecond
	}
	if opt.PollAttempts <= 0 {
		opt.PollAttempts = 20
	}
	return &Dispatcher{ctx: ctx, client: client, opt: opt}
}

// DeleteRow removes a user. Whatever the outcome, the view reloads.
func (d *Dispatcher) DeleteRow(id string) tea.Cmd {
	return func() tea.Msg {
		resp, err := d.client.PostForm(d.ctx, PathDelete, url.Values{"user": {id}})
		if err != nil {
			log.Warnf("delete %s: %v", id, err)
		} else if !resp.OK() {
			log.Warnf("delete %s: status %d", id, resp.Status)
		}
		return ReloadMsg{Op: "delete"}
	}
}

// AddRow creates a user. seq is echoed in the completion message so the caller
// can tell a stale result from the current one.
func (d *Dispatcher) AddRow(seq uint64, f UserFields) tea.Cmd {
	values := url.Values{
		"username": {f.Username},
		"password": {f.Password},
		"is_admin": {NormalizeAdmin(f.IsAdmin)},
	}
	return d.submit(seq, "add", PathAdd, values)
}

// UpdateRow rewrites the user original, taking each empty edit field from the row.
func (d *Dispatcher) UpdateRow(seq uint64, original model.Row, edit UserFields) tea.Cmd {
	return d.submit(seq, "update", PathUpdate, UpdateForm(original, edit))
}

// UpdateForm builds the /updateUser body.
func UpdateForm(original model.Row, edit UserFields) url.Values {
	pick := func(edited, key string) string {
		if edited != "" {
			return edited
		}
		v, _ := original.Get(key)
		return v
	}
	return url.Values{
		"old_username": {original.ID()},
		"username":     {pick(edit.Username, "id")},
		"password":     {pick(edit.Password, "password")},
		"is_admin":     {NormalizeAdmin(pick(edit.IsAdmin, "is_admin"))},
	}
}

func (d *Dispatcher) submit(seq uint64, op, path string, values url.Values) tea.Cmd {
	return func() tea.Msg {
		resp, err := d.client.PostForm(d.ctx, path, values)
		if err != nil {
			return ActionErrorMsg{Op: op, Message: err.Error(), Seq: seq}
		}
		if !resp.OK() {
			log.Warnf("%s: status %d", op, resp.Status)
			return ActionErrorMsg{Op: op, Message: resp.Body, Seq: seq}
		}
		return ReloadMsg{Op: op, Seq: seq}
	}
}

// NormalizeAdmin maps the assorted truthy spellings to "true"/"false", the
// only values the backend compares against.
func NormalizeAdmin(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "t", "yes", "y", "1", "on", "admin":
		return "true"
	}
	return "false"
}

// ExportBody joins ids the way the backend splits them: every id is followed
// by a comma and the trailing empty element is discarded server side.
func ExportBody(ids []string) url.Values {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte(',')
	}
	return url.Values{"hit_ids": {b.String()}}
}

// RequestExport asks the backend to write the given rows to a file, then polls
// the returned link until it can be fetched.
func (d *Dispatcher) RequestExport(ids []string) tea.Cmd {
	return func() tea.Msg {
		resp, err := d.client.PostForm(d.ctx, PathExport, ExportBody(ids))
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		if resp.Status != 200 {
			return ExportFailedMsg{Err: fmt.Errorf("export: status %d", resp.Status)}
		}
		link, err := d.client.Resolve(strings.TrimSpace(resp.Body))
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		if err := d.awaitLink(link); err != nil {
			return ExportFailedMsg{Err: err}
		}
		log.Infof("export ready: %d rows at %s", len(ids), link)
		return ExportReadyMsg{Link: link}
	}
}

func (d *Dispatcher) awaitLink(link string) error {
	var last error
	for i := 0; i < d.opt.PollAttempts; i++ {
		resp, err := d.client.Get(d.ctx, link)
		switch {
		case err != nil:
			last = err
		case resp.Status == 200:
			return nil
		default:
			last = fmt.Errorf("status %d", resp.Status)
		}
		select {
		case <-d.ctx.Done():
			return d.ctx.Err()
		case <-time.After(d.opt.PollInterval):
		}
	}
	return fmt.Errorf("export not available after %d attempts: %w", d.opt.PollAttempts, last)
}

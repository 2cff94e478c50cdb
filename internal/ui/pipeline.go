package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"amtconsole/internal/ingest"
	"amtconsole/internal/util/logx"
)

const (
	tickEvery      = 200 * time.Millisecond
	batchesPerTick = 64
	scanBufSize    = 1024 * 1024
)

var log = logx.Named("ui")

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

// startIngest (re)starts the row source of v. A previous ingest is cancelled
// first, so reloading never mixes rows from two loads.
func (m *Model) startIngest(v *tableView) {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	v.cancel = cancel

	opt := ingest.Options{Source: ingest.SourceDemo, Demo: v.demo, ScanBufSize: scanBufSize}
	if v.path != "" {
		opt.Source = ingest.SourceFile
		opt.Path = v.path
		opt.Follow = m.cfg.Follow
	}
	v.batches, v.errs = ingest.Read(ctx, opt)
	v.loaded = false
	log.Infof("%s: source=%s path=%s follow=%v", v.title, opt.Source, opt.Path, opt.Follow)
}

// drain pulls pending batches without blocking. It reports whether any rows
// changed.
func (m *Model) drain(v *tableView) bool {
	changed := false
	for i := 0; i < batchesPerTick; i++ {
		select {
		case b, ok := <-v.batches:
			if !ok {
				v.batches = nil
				i = batchesPerTick
				break
			}
			if b.Reset {
				v.store.Replace(b.Rows)
				v.loaded = true
			} else {
				for _, r := range b.Rows {
					v.store.Push(r)
				}
			}
			changed = true
		default:
			i = batchesPerTick
		}
	}
	for j := 0; j < 8; j++ {
		select {
		case err, ok := <-v.errs:
			if !ok {
				v.errs = nil
				j = 8
				break
			}
			log.Errorf("%s: %v", v.title, err)
			v.loaded = true
			m.lastMsg = "load failed: " + err.Error()
		default:
			j = 8
		}
	}
	if changed {
		v.dirty = true
	}
	return changed
}

func (m *Model) stopIngest() {
	for _, v := range m.views {
		if v.cancel != nil {
			v.cancel()
		}
	}
}

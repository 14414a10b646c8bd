package telegram

import (
	"sync"
	"time"
)

type stage int

const (
	stageChoiceDirection stage = iota + 1
	stageFinal
)

// dialog is the state of a two-step station choice started by /schedule or /add_favorite.
type dialog struct {
	command   string
	stage     stage
	fromID    int
	messageID int // message carrying the inline keyboard
	updatedAt time.Time
}

// dialogKey identifies a dialog: one user in one chat.
type dialogKey struct {
	chatID int64
	userID int64
}

// dialogs holds at most one dialog per user per chat, in memory only.
type dialogs struct {
	mu sync.Mutex
	m  map[dialogKey]dialog
}

func newDialogs() *dialogs {
	return &dialogs{m: make(map[dialogKey]dialog)}
}

// put starts or advances a dialog, replacing any previous one under the same key.
func (d *dialogs) put(key dialogKey, dlg dialog) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m[key] = dlg
}

// take removes and returns the dialog of key if it belongs to messageID.
// A button pressed under an older message, or by another user, finds nothing.
func (d *dialogs) take(key dialogKey, messageID int) (dialog, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dlg, ok := d.m[key]
	if !ok || dlg.messageID != messageID {
		return dialog{}, false
	}
	delete(d.m, key)
	return dlg, true
}

// expire removes and returns dialogs not touched since cutoff.
func (d *dialogs) expire(cutoff time.Time) map[dialogKey]dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out map[dialogKey]dialog
	for key, dlg := range d.m {
		if dlg.updatedAt.After(cutoff) {
			continue
		}
		if out == nil {
			out = make(map[dialogKey]dialog)
		}
		out[key] = dlg
		delete(d.m, key)
	}
	return out
}

func (d *dialogs) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.m)
}

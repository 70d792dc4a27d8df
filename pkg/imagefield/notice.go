package imagefield

import (
	"time"

	"github.com/dmitrymomot/imagefield/pkg/logger"
)

// Severity of a notice.
type Severity string

const SeverityError Severity = "error"

// OverrideLabel is the caption of the action that accepts a rejected file.
const OverrideLabel = "Proceed Anyways"

// Notice is the transient message shown while a field is in an error status.
// Dismissing it, by timeout or explicitly, leaves the status untouched.
type Notice struct {
	Status   Status
	Severity Severity
	Message  string
	// Action is the override caption, empty when the status cannot be overridden.
	Action    string
	ShownAt   time.Time
	ExpiresAt time.Time // zero when the notice never expires
}

// Overridable reports whether the notice offers the override action.
func (n Notice) Overridable() bool {
	return n.Action != ""
}

func (f *Field) noticeMessage(s Status) string {
	switch s {
	case InvalidImage:
		return f.printer.Sprintf("ERROR: This file does not seem to be a valid image. Are you sure you want to use this file?")
	case FileTooLarge:
		return f.printer.Sprintf("ERROR: We recommend not using an image larger than %d characters after encoding. Are you sure you want to use this file?", f.opts.maxEncodedLength)
	case ReadFailed:
		return f.printer.Sprintf("ERROR: The selected file could not be read.")
	default:
		return ""
	}
}

// showNotice replaces the current notice. Caller holds f.mu.
func (f *Field) showNotice(s Status) {
	f.stopNoticeTimer()
	f.noticeGen++
	gen := f.noticeGen

	now := time.Now()
	n := &Notice{
		Status:   s,
		Severity: SeverityError,
		Message:  f.noticeMessage(s),
		ShownAt:  now,
	}
	if s.Overridable() {
		n.Action = OverrideLabel
	}
	if f.opts.noticeTimeout > 0 {
		n.ExpiresAt = now.Add(f.opts.noticeTimeout)
		f.noticeTimer = time.AfterFunc(f.opts.noticeTimeout, func() { f.expireNotice(gen) })
	}
	f.notice = n
}

func (f *Field) expireNotice(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A newer notice owns its own timer.
	if f.notice == nil || f.noticeGen != gen {
		return
	}
	f.notice = nil
	f.noticeTimer = nil
	f.log.Debug("notice expired", logger.Status(f.state.Status))
}

// clearNotice drops the notice and its timer. Caller holds f.mu.
func (f *Field) clearNotice() {
	f.stopNoticeTimer()
	f.notice = nil
}

func (f *Field) stopNoticeTimer() {
	if f.noticeTimer != nil {
		f.noticeTimer.Stop()
		f.noticeTimer = nil
	}
}

// Notice returns the active notice, if any.
func (f *Field) Notice() (Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.notice == nil {
		return Notice{}, false
	}
	return *f.notice, true
}

// DismissNotice hides the active notice. The status is not changed.
func (f *Field) DismissNotice() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearNotice()
}

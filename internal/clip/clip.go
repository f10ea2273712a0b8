// Package clip writes prompt content to the system clipboard.
package clip

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/hpungsan/shelf/internal/errors"
)

// Writer places text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type System struct{}

// WriteAll copies text, mapping a missing clipboard utility to CLIPBOARD_UNAVAILABLE.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.NewClipboardUnavailable(nil)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.NewClipboardUnavailable(err)
	}
	return nil
}

// Memory is an in-process clipboard, used by tests and as a fallback.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
	Err    error // returned by WriteAll when set
}

// WriteAll stores text unless Err is set.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Package tui provides the Bubble Tea terminal browser for shelf.
package tui

// SaveToggled is sent when a save toggle has been applied.
type SaveToggled struct {
	ID    int
	Saved bool
	Err   error
}

// Copied is sent when a prompt's content has been written to the clipboard.
type Copied struct {
	ID    int
	Title string
	Err   error
}

// statusExpired clears the status line if no newer status replaced it.
type statusExpired struct {
	seq int
}

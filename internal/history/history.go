// Package history remembers, per browser session, the previous and current
// pathname so views can offer "back to where you were".
package history

import "context"

type Tracker interface {
	// Visit records pathname as the session's current location. When it
	// differs from the recorded one, the recorded one becomes the previous
	// location. It returns the previous location after the update.
	Visit(ctx context.Context, session, pathname string) (string, error)
	Previous(ctx context.Context, session string) (string, error)
}

// Entry is the last-write-wins record kept for a session.
type Entry struct {
	Previous string
	Current  string
}

func (e Entry) visit(pathname string) Entry {
	if e.Current == pathname {
		return e
	}
	return Entry{Previous: e.Current, Current: pathname}
}

package location

import (
	"strings"
)

// History is an in-process stand-in for the browser address bar: the current search string plus a back stack
type History struct {
	entries []string
}

// New creates a history positioned at the normalised initial location
func New(initial string) *History {
	return &History{entries: []string{Normalize(initial)}}
}

// Current returns the current search string, "" or starting with '?'
func (h *History) Current() string {
	return h.entries[len(h.entries)-1]
}

// Push makes search the current location, even when it equals the current one
func (h *History) Push(search string) {
	h.entries = append(h.entries, Normalize(search))
}

// Back pops the current location and reports whether there was one to go back to
func (h *History) Back() (string, bool) {
	if len(h.entries) < 2 {
		return h.Current(), false
	}

	h.entries = h.entries[:len(h.entries)-1]

	return h.Current(), true
}

// CanGoBack reports whether Back would change the location
func (h *History) CanGoBack() bool {
	return len(h.entries) > 1
}

// Len returns the number of entries in the history
func (h *History) Len() int {
	return len(h.entries)
}

// Normalize turns a full URL, a bare query or a search string into a search string.
// Fragments are dropped.
func Normalize(loc string) string {
	loc = strings.TrimSpace(loc)

	if i := strings.IndexByte(loc, '#'); i >= 0 {
		loc = loc[:i]
	}

	if i := strings.IndexByte(loc, '?'); i >= 0 {
		loc = loc[i+1:]
	} else if strings.Contains(loc, "://") || strings.HasPrefix(loc, "/") {
		return ""
	}

	if loc == "" {
		return ""
	}

	return "?" + loc
}

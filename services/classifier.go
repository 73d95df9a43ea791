package services

import (
	"strconv"
	"strings"
)

// EventKind identifies what a line of spotdl output means for progress.
type EventKind int

const (
	// EventIgnore is a line with no progress meaning.
	EventIgnore EventKind = iota
	// EventCountDiscovered carries the number of songs spotdl found.
	EventCountDiscovered
	// EventItemCompleted is one finished download.
	EventItemCompleted
	// EventItemSkipped is one track skipped because it already exists.
	EventItemSkipped
	// EventConverting is a conversion/processing notice.
	EventConverting
)

// Event is the classification of one output line.
type Event struct {
	Kind  EventKind
	Count int // song count, only for EventCountDiscovered
}

// rule maps a line predicate to an event. Rules are tried in order and
// the first match wins.
type rule struct {
	name    string
	matches func(line string) bool
	event   func(line string) (Event, bool)
}

var classifierRules = []rule{
	{
		name: "count discovered",
		matches: func(l string) bool {
			return (strings.Contains(l, "Found") && strings.Contains(l, "song")) ||
				strings.Contains(l, "Processing query")
		},
		event: func(l string) (Event, bool) {
			// Discovery lines without a parseable count are dropped.
			n, ok := firstNumber(l)
			if !ok {
				return Event{}, false
			}
			return Event{Kind: EventCountDiscovered, Count: n}, true
		},
	},
	{
		name:    "item completed",
		matches: func(l string) bool { return strings.Contains(l, "Downloaded") },
		event:   func(string) (Event, bool) { return Event{Kind: EventItemCompleted}, true },
	},
	{
		name:    "item skipped",
		matches: func(l string) bool { return strings.Contains(l, "Skipping") },
		event:   func(string) (Event, bool) { return Event{Kind: EventItemSkipped}, true },
	},
	{
		name: "converting",
		matches: func(l string) bool {
			return strings.Contains(l, "Converting") || strings.Contains(l, "Processing")
		},
		event: func(string) (Event, bool) { return Event{Kind: EventConverting}, true },
	},
}

// Classify maps one line of spotdl output to a progress event. It is
// best-effort: unrecognized lines classify as EventIgnore, never an error.
func Classify(line string) Event {
	l := strings.TrimSpace(line)
	if l == "" {
		return Event{Kind: EventIgnore}
	}
	for _, r := range classifierRules {
		if !r.matches(l) {
			continue
		}
		if ev, ok := r.event(l); ok {
			return ev
		}
		return Event{Kind: EventIgnore}
	}
	return Event{Kind: EventIgnore}
}

// firstNumber returns the first whitespace-delimited token that parses
// as a non-negative integer.
func firstNumber(s string) (int, bool) {
	for _, word := range strings.Fields(s) {
		if n, err := strconv.Atoi(word); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

package match

import (
	"encoding/json"
	"strings"

	"github.com/dgnsrekt/strikers-notifier/internal/tail"
)

const (
	// Payload is the status text the client logs when a match is starting.
	Payload = `Matchmaking Status: {"state":"StartingGame","idle":{"timestamp":"","state":""},`

	// WindowStart and WindowEnd bound the byte range of a line holding Payload.
	WindowStart = 150
	WindowEnd   = WindowStart + len(Payload) // 229

	statusPrefix    = "Matchmaking Status: "
	startingState   = "StartingGame"
	diagnosticState = `"state":"STARTING_GAME"`
)

// Matcher reports whether a log line is the match-started transition.
type Matcher interface {
	Match(line tail.Line) bool
}

// Window matches Payload exactly at the fixed byte window of the line.
type Window struct{}

// Match is case-sensitive and byte-exact. Lines shorter than WindowEnd never match.
func (Window) Match(line tail.Line) bool {
	if len(line.Text) < WindowEnd {
		return false
	}
	return line.Text[WindowStart:WindowEnd] == Payload
}

// Structured runs the window check first and, when it misses, decodes the
// status object following "Matchmaking Status: " anywhere in the line.
// It tolerates the status payload drifting away from the fixed offset.
type Structured struct {
	window Window
}

type status struct {
	State string `json:"state"`
}

// Match reports a structured match on state == "StartingGame".
func (s Structured) Match(line tail.Line) bool {
	if s.window.Match(line) {
		return true
	}

	idx := strings.Index(line.Text, statusPrefix)
	if idx < 0 {
		return false
	}

	var st status
	dec := json.NewDecoder(strings.NewReader(line.Text[idx+len(statusPrefix):]))
	if err := dec.Decode(&st); err != nil {
		return false
	}
	return st.State == startingState
}

// New returns the window matcher, or the structured fallback when enabled.
func New(structured bool) Matcher {
	if structured {
		return Structured{}
	}
	return Window{}
}

// Diagnose returns a short description of why a line looks interesting even
// though it may not match, or "" when there is nothing to report. The result
// is only meant for debug logging.
func Diagnose(line tail.Line) string {
	if strings.Contains(line.Text, diagnosticState) {
		if len(line.Text) >= WindowEnd {
			return "legacy STARTING_GAME state, window=" + line.Text[WindowStart:WindowEnd]
		}
		return "legacy STARTING_GAME state on short line"
	}
	return ""
}

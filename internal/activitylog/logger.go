// Package activitylog writes a JSONL activity log for a supervised agent
// session. Each entry is one JSON object per line with a timestamp, the
// actor (session name), and event-specific fields.
package activitylog

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger appends activity entries to a log file. A disabled or Nop logger
// accepts all calls and writes nothing.
type Logger struct {
	mu        sync.Mutex
	enabled   bool
	file      *os.File
	actor     string
	sessionID string
}

// New creates a Logger writing to path. When enabled is false, no file is
// created and all methods are no-ops.
func New(enabled bool, path, actor, sessionID string) *Logger {
	l := &Logger{
		enabled:   enabled,
		actor:     actor,
		sessionID: sessionID,
	}
	if !enabled {
		return l
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.enabled = false
		return l
	}
	l.file = f
	return l
}

// Nop returns a disabled Logger.
func Nop() *Logger {
	return &Logger{}
}

// Close releases the underlying file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// entry is the JSON shape of a single activity log line.
type entry struct {
	Timestamp string `json:"ts"`
	Actor     string `json:"actor"`
	SessionID string `json:"session_id"`
	Event     string `json:"event"`

	HookEvent      string `json:"hook_event,omitempty"`
	ChildSessionID string `json:"child_session_id,omitempty"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	Port           int    `json:"port,omitempty"`
	ExitCode       *int   `json:"exit_code,omitempty"`
}

// HookEvent records a hook notification received from the agent.
func (l *Logger) HookEvent(hookEvent string) {
	l.write(entry{Event: "hook", HookEvent: hookEvent})
}

// SessionIdentified records the session id the agent reported at startup.
func (l *Logger) SessionIdentified(childSessionID string) {
	l.write(entry{Event: "session_identified", ChildSessionID: childSessionID})
}

// StateChange records a thinking/idle transition.
func (l *Logger) StateChange(from, to string) {
	l.write(entry{Event: "state_change", From: from, To: to})
}

// ServerStarted records the hook server's assigned port.
func (l *Logger) ServerStarted(port int) {
	l.write(entry{Event: "hook_server_started", Port: port})
}

// ChildExited records the agent process exiting with the given code.
func (l *Logger) ChildExited(code int) {
	l.write(entry{Event: "child_exited", ExitCode: &code})
}

func (l *Logger) write(e entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.file == nil {
		return
	}
	e.Timestamp = time.Now().Format(time.RFC3339Nano)
	e.Actor = l.actor
	e.SessionID = l.sessionID

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	l.file.Write(append(data, '\n'))
}

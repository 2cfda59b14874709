// Package session tracks the lifecycle state of a single supervised agent
// session. It is a pure consumer of hook notifications — the hook server
// invokes its callbacks, the session updates internal state and signals an
// event channel. It knows nothing about HTTP or process management.
package session

import (
	"sync"
	"time"

	"hookline/internal/activitylog"
	"hookline/internal/hookserver"
)

// Session accumulates lifecycle data reported by the agent's hooks.
type Session struct {
	mu             sync.RWMutex
	id             string // id assigned by the parent at launch
	childID        string // id the agent reported via its session-start hook
	thinking       bool
	promptCount    int64
	lastEvent      string
	lastEventTime  time.Time
	transcriptPath string
	workDir        string
	eventCh        chan string // sends event name so a watcher can interpret
	activityLog    *activitylog.Logger
}

// New creates a Session with the parent-assigned id.
func New(id string, log *activitylog.Logger) *Session {
	if log == nil {
		log = activitylog.Nop()
	}
	return &Session{
		id:          id,
		eventCh:     make(chan string, 1),
		activityLog: log,
	}
}

// EventCh returns the channel that receives hook event names.
func (s *Session) EventCh() <-chan string {
	return s.eventCh
}

// Callbacks returns the hook server callbacks wired to this session.
// The callbacks execute inline in the request-handling path and must not
// block, so all work here is a mutex-guarded state update plus a
// non-blocking channel send.
func (s *Session) Callbacks() hookserver.Callbacks {
	return hookserver.Callbacks{
		OnSessionHook:   s.handleSessionStart,
		OnThinkingStart: s.handleThinkingStart,
		OnThinkingStop:  s.handleThinkingStop,
	}
}

func (s *Session) handleSessionStart(childID string, data map[string]any) {
	s.mu.Lock()
	s.childID = childID
	s.thinking = false
	if p, ok := data["transcript_path"].(string); ok {
		s.transcriptPath = p
	}
	if d, ok := data["cwd"].(string); ok {
		s.workDir = d
	}
	s.recordEvent("session-start")
	s.mu.Unlock()

	s.activityLog.HookEvent("session-start")
	s.activityLog.SessionIdentified(childID)
	s.notify("session-start")
}

func (s *Session) handleThinkingStart() {
	s.mu.Lock()
	wasThinking := s.thinking
	s.thinking = true
	s.promptCount++
	s.recordEvent("user-prompt-submit")
	s.mu.Unlock()

	s.activityLog.HookEvent("user-prompt-submit")
	if !wasThinking {
		s.activityLog.StateChange("idle", "thinking")
	}
	s.notify("user-prompt-submit")
}

func (s *Session) handleThinkingStop() {
	s.mu.Lock()
	wasThinking := s.thinking
	s.thinking = false
	s.recordEvent("stop")
	s.mu.Unlock()

	s.activityLog.HookEvent("stop")
	if wasThinking {
		s.activityLog.StateChange("thinking", "idle")
	}
	s.notify("stop")
}

// recordEvent updates the last-event bookkeeping. Caller holds s.mu.
func (s *Session) recordEvent(name string) {
	s.lastEvent = name
	s.lastEventTime = time.Now()
}

// notify sends the event name to the watcher (non-blocking).
func (s *Session) notify(name string) {
	select {
	case s.eventCh <- name:
	default:
	}
}

// State is a point-in-time snapshot of session data.
type State struct {
	ID             string
	ChildID        string
	Thinking       bool
	PromptCount    int64
	LastEvent      string
	LastEventTime  time.Time
	TranscriptPath string
	WorkDir        string
}

// Snapshot returns a point-in-time copy of the session's state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		ID:             s.id,
		ChildID:        s.childID,
		Thinking:       s.thinking,
		PromptCount:    s.promptCount,
		LastEvent:      s.lastEvent,
		LastEventTime:  s.lastEventTime,
		TranscriptPath: s.transcriptPath,
		WorkDir:        s.workDir,
	}
}

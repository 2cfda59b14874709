package session

import (
	"testing"
)

func TestSessionStartHookRecordsChildID(t *testing.T) {
	s := New("parent-id", nil)
	cb := s.Callbacks()

	cb.OnSessionHook("child-abc", map[string]any{
		"session_id":      "child-abc",
		"transcript_path": "/tmp/transcript.jsonl",
		"cwd":             "/home/user/project",
	})

	st := s.Snapshot()
	if st.ID != "parent-id" {
		t.Errorf("ID = %q, want %q", st.ID, "parent-id")
	}
	if st.ChildID != "child-abc" {
		t.Errorf("ChildID = %q, want %q", st.ChildID, "child-abc")
	}
	if st.TranscriptPath != "/tmp/transcript.jsonl" {
		t.Errorf("TranscriptPath = %q, want %q", st.TranscriptPath, "/tmp/transcript.jsonl")
	}
	if st.WorkDir != "/home/user/project" {
		t.Errorf("WorkDir = %q, want %q", st.WorkDir, "/home/user/project")
	}
	if st.LastEvent != "session-start" {
		t.Errorf("LastEvent = %q, want %q", st.LastEvent, "session-start")
	}
	if st.LastEventTime.IsZero() {
		t.Error("expected LastEventTime to be set")
	}
}

func TestThinkingTransitions(t *testing.T) {
	s := New("id", nil)
	cb := s.Callbacks()

	if s.Snapshot().Thinking {
		t.Fatal("new session should not be thinking")
	}

	cb.OnThinkingStart()
	if !s.Snapshot().Thinking {
		t.Error("expected thinking after user-prompt-submit")
	}

	cb.OnThinkingStop()
	if s.Snapshot().Thinking {
		t.Error("expected idle after stop")
	}
}

func TestPromptCount(t *testing.T) {
	s := New("id", nil)
	cb := s.Callbacks()

	cb.OnThinkingStart()
	cb.OnThinkingStop()
	cb.OnThinkingStart()

	if got := s.Snapshot().PromptCount; got != 2 {
		t.Errorf("PromptCount = %d, want 2", got)
	}
}

func TestEventChannelReceivesEventNames(t *testing.T) {
	s := New("id", nil)
	cb := s.Callbacks()

	cb.OnThinkingStart()

	select {
	case ev := <-s.EventCh():
		if ev != "user-prompt-submit" {
			t.Errorf("event = %q, want %q", ev, "user-prompt-submit")
		}
	default:
		t.Fatal("expected an event on the channel")
	}
}

func TestEventChannelDoesNotBlock(t *testing.T) {
	s := New("id", nil)
	cb := s.Callbacks()

	// No reader: repeated events must not block the callback path.
	for i := 0; i < 10; i++ {
		cb.OnThinkingStart()
		cb.OnThinkingStop()
	}

	if got := s.Snapshot().PromptCount; got != 10 {
		t.Errorf("PromptCount = %d, want 10", got)
	}
}

func TestSessionStartMissingOptionalFields(t *testing.T) {
	s := New("id", nil)
	cb := s.Callbacks()

	cb.OnSessionHook("child-xyz", map[string]any{"session_id": "child-xyz"})

	st := s.Snapshot()
	if st.ChildID != "child-xyz" {
		t.Errorf("ChildID = %q, want %q", st.ChildID, "child-xyz")
	}
	if st.TranscriptPath != "" || st.WorkDir != "" {
		t.Errorf("expected empty optional fields, got %q / %q", st.TranscriptPath, st.WorkDir)
	}
}

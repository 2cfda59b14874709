package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionsDir returns the directory where session dirs are created
// (~/.hookline/sessions/).
func SessionsDir() string {
	return filepath.Join(ConfigDir(), "sessions")
}

// SessionDir returns the session directory for a given session name.
func SessionDir(name string) string {
	return filepath.Join(SessionsDir(), name)
}

// SetupSessionDir creates the session directory for a session and writes the
// agent config files, including the settings.json that points the agent's
// hooks at the parent's notification server. The port must be the already
// bound hook server port — the settings artifact is the only channel through
// which the child learns where to send hook events, so this must complete
// before the child starts.
//
// Returns the agent config dir (to be passed as CLAUDE_CONFIG_DIR).
func SetupSessionDir(name, forwarderExe string, port int) (string, error) {
	sessionDir := SessionDir(name)
	claudeDir := filepath.Join(sessionDir, ".claude")

	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	settings := buildHookSettings(forwarderExe, port)
	settingsJSON, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal settings.json: %w", err)
	}
	settingsPath := filepath.Join(claudeDir, "settings.json")
	if err := os.WriteFile(settingsPath, settingsJSON, 0o644); err != nil {
		return "", fmt.Errorf("write settings.json: %w", err)
	}

	return claudeDir, nil
}

// hookEntry represents a single hook in the settings.json hooks array.
type hookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout"`
}

// hookMatcher represents a matcher + hooks pair in settings.json.
type hookMatcher struct {
	Matcher string      `json:"matcher"`
	Hooks   []hookEntry `json:"hooks"`
}

// hookedEvents maps the agent's hook event names to the forwarder's
// event-type labels (which double as the server's route names).
var hookedEvents = []struct {
	settingsName string
	eventType    string
}{
	{"SessionStart", "session-start"},
	{"UserPromptSubmit", "user-prompt-submit"},
	{"Stop", "stop"},
}

// buildHookSettings constructs the settings.json content wiring each
// lifecycle hook to `<exe> forward-hook <port> <event-type>`.
func buildHookSettings(forwarderExe string, port int) map[string]any {
	hooks := make(map[string][]hookMatcher)
	for _, ev := range hookedEvents {
		hooks[ev.settingsName] = []hookMatcher{{
			Matcher: "",
			Hooks: []hookEntry{{
				Type:    "command",
				Command: fmt.Sprintf("%s forward-hook %d %s", forwarderExe, port, ev.eventType),
				Timeout: 5,
			}},
		}}
	}
	return map[string]any{"hooks": hooks}
}

// Package hookserver provides the loopback HTTP server that receives
// lifecycle hook events from a supervised agent process. It binds a random
// port on 127.0.0.1 and dispatches events via callbacks; the parent bakes
// the assigned port into the agent's hook commands before launch.
package hookserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// SessionStartTimeout bounds how long the session-start route waits for the
// full request body. Guards against a hook runner that opens the connection
// but never closes its writable side.
// Exposed as a variable so tests can override it.
var SessionStartTimeout = 5 * time.Second

// maxSessionStartBody caps the session-start payload at 1 MiB. A truncated
// body fails JSON parsing and degrades to an empty payload.
const maxSessionStartBody = 1 << 20

// Callbacks defines the functions called when hook events are received.
// Any callback may be nil, in which case the route still accepts POSTs
// and returns 200 but the event is discarded.
type Callbacks struct {
	// OnSessionHook receives the agent-reported session id and the decoded
	// session-start payload. Invoked only when the payload carries an id.
	OnSessionHook func(sessionID string, data map[string]any)
	// OnThinkingStart fires on user-prompt-submit events.
	OnThinkingStart func()
	// OnThinkingStop fires on stop events.
	OnThinkingStop func()
}

// Server is an HTTP server that accepts hook events on /hook/session-start,
// /hook/user-prompt-submit, and /hook/stop.
type Server struct {
	Port     int
	listener net.Listener
	server   *http.Server
}

// Start creates and starts a Server bound to 127.0.0.1:0 (random port).
func Start(cb Callbacks) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for hooks: %w", err)
	}

	s := &Server{
		Port:     ln.Addr().(*net.TCPAddr).Port,
		listener: ln,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hook/session-start", makeSessionStartHandler(cb.OnSessionHook))
	mux.HandleFunc("/hook/user-prompt-submit", makeDrainHandler(cb.OnThinkingStart))
	mux.HandleFunc("/hook/stop", makeDrainHandler(cb.OnThinkingStop))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, "not found")
	})

	s.server = &http.Server{Handler: mux}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		wg.Done()
		s.server.Serve(ln)
	}()
	wg.Wait() // wait for goroutine to start

	return s, nil
}

// Stop gracefully shuts down the HTTP server and closes the listener.
// In-flight requests are allowed to complete or time out per their own
// route logic.
func (s *Server) Stop() {
	if s.server != nil {
		s.server.Shutdown(context.Background())
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// makeDrainHandler returns a handler for the payload-less hook routes.
// The body is drained and discarded, then the callback fires if bound.
func makeDrainHandler(callback func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond(w, http.StatusNotFound, "not found")
			return
		}
		if _, err := io.Copy(io.Discard, r.Body); err != nil {
			respond(w, http.StatusInternalServerError, "error")
			return
		}
		if callback != nil {
			if err := invoke(callback); err != nil {
				respond(w, http.StatusInternalServerError, "error")
				return
			}
		}
		respond(w, http.StatusOK, "ok")
	}
}

// makeSessionStartHandler returns the handler for the session-start route.
// The full body must arrive within SessionStartTimeout or the request is
// answered 408 and no callback fires, even if bytes show up later.
func makeSessionStartHandler(callback func(string, map[string]any)) http.HandlerFunc {
	type readResult struct {
		body []byte
		err  error
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond(w, http.StatusNotFound, "not found")
			return
		}

		ch := make(chan readResult, 1)
		go func() {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxSessionStartBody))
			ch <- readResult{body, err}
		}()

		timer := time.NewTimer(SessionStartTimeout)
		defer timer.Stop()

		var body []byte
		select {
		case res := <-ch:
			if res.err != nil {
				respond(w, http.StatusInternalServerError, "error")
				return
			}
			body = res.body
		case <-timer.C:
			// Returning finalizes the request; the late read result lands in
			// the buffered channel and is dropped.
			respond(w, http.StatusRequestTimeout, "timeout")
			return
		}

		data := decodePayload(body)
		if id := extractSessionID(data); id != "" && callback != nil {
			if err := invoke(func() { callback(id, data) }); err != nil {
				respond(w, http.StatusInternalServerError, "error")
				return
			}
		}
		respond(w, http.StatusOK, "ok")
	}
}

// decodePayload parses a session-start body. The sender is trusted but its
// payload quality is not: malformed JSON degrades to an empty object rather
// than a server-level error.
func decodePayload(body []byte) map[string]any {
	if len(body) == 0 {
		return map[string]any{}
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return map[string]any{}
	}
	return data
}

// sessionIDKeys lists the accepted spellings for the session identifier,
// in precedence order.
var sessionIDKeys = []string{"session_id", "sessionId"}

// extractSessionID pulls the session identifier from a decoded payload.
// Non-string or empty values are treated as absent.
func extractSessionID(data map[string]any) string {
	for _, key := range sessionIDKeys {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// invoke runs fn, converting a panic into an error so a misbehaving
// callback cannot take down the server or leave a request unanswered.
func invoke(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook callback panic: %v", r)
		}
	}()
	fn()
	return nil
}

// respond writes the status code and a short informational body. Each
// handler writes at most once; the status code is authoritative.
func respond(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

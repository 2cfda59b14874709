package cmd

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

// defaultHookEvent is the event type used when the caller omits one.
// Older settings files registered the forwarder without an event argument.
const defaultHookEvent = "session-start"

func newForwardHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forward-hook <port> [event-type]",
		Short: "Forward a hook payload from stdin to the parent session",
		Long: `Reads a hook JSON payload from stdin and POSTs it to the parent hookline
process listening on 127.0.0.1:<port>.

Designed to be registered as the hook command in the agent's settings.json.
Network failures are swallowed so a broken notification never disrupts the
agent's own event processing; only an invalid port argument exits non-zero.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate the port before touching stdin or the network.
			port, err := strconv.Atoi(args[0])
			if err != nil || port <= 0 || port > 65535 {
				return fmt.Errorf("invalid port %q", args[0])
			}

			event := defaultHookEvent
			if len(args) == 2 {
				event = args[1]
			}

			payload, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				// Nothing to forward; the hook runner must not see a failure.
				return nil
			}

			forwardHook(port, event, payload)
			return nil
		},
	}
	return cmd
}

// forwardHook POSTs the payload to the parent's hook server. Best-effort:
// errors are silently ignored, the response is drained only to release the
// connection, and there are no retries.
func forwardHook(port int, event string, payload []byte) {
	url := fmt.Sprintf("http://127.0.0.1:%d/hook/%s", port, event)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = int64(len(payload))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}

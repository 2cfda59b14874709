package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"hookline/internal/activitylog"
	"hookline/internal/config"
	"hookline/internal/hookserver"
	"hookline/internal/launch"
	"hookline/internal/picker"
	"hookline/internal/session"
)

func newRunCmd() *cobra.Command {
	var name string
	var dir string

	cmd := &cobra.Command{
		Use:   "run [profile]",
		Short: "Start a supervised agent session",
		Long: `Starts the hook notification server, writes the agent settings that point
its lifecycle hooks at the server's port, and launches the agent in a pty.

The session's settings.json is generated under ~/.hookline/sessions/<name>/
and handed to the agent via CLAUDE_CONFIG_DIR. The server must be bound
before the agent starts — the settings artifact is the only channel through
which the agent learns the port.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pick := func(items []string) (string, error) {
				if !isatty.IsTerminal(os.Stdin.Fd()) {
					return "", fmt.Errorf("multiple profiles configured; specify one: hookline run <profile>")
				}
				return picker.Pick("Select a profile", items)
			}
			profileName, profile, err := resolveProfile(cfg, args, pick)
			if err != nil {
				return err
			}
			if name == "" {
				name = profileName
			}

			sessionID := uuid.New().String()
			sessionDir := config.SessionDir(name)
			if err := os.MkdirAll(sessionDir, 0o755); err != nil {
				return fmt.Errorf("create session dir: %w", err)
			}

			// One parent per session dir.
			lock := flock.New(filepath.Join(sessionDir, "session.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock session dir: %w", err)
			}
			if !locked {
				return fmt.Errorf("session %q is already running", name)
			}
			defer lock.Unlock()

			logger := activitylog.New(cfg.ActivityLog, filepath.Join(sessionDir, "activity.log"), name, sessionID)
			defer logger.Close()

			sess := session.New(sessionID, logger)

			server, err := hookserver.Start(sess.Callbacks())
			if err != nil {
				return fmt.Errorf("start hook server: %w", err)
			}
			defer server.Stop()
			logger.ServerStarted(server.Port)

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			claudeDir, err := config.SetupSessionDir(name, exe, server.Port)
			if err != nil {
				return err
			}

			var model, permissionMode string
			if profile != nil {
				model = profile.Model
				permissionMode = profile.PermissionMode
			}
			extraArgs, err := profile.SplitExtraArgs()
			if err != nil {
				return fmt.Errorf("profile %s: %w", profileName, err)
			}

			code, err := launch.Run(cmd.Context(), launch.Spec{
				Command: profile.GetCommand(),
				Args:    launch.BuildArgs(sessionID, model, permissionMode, extraArgs),
				Dir:     dir,
				Env:     append(os.Environ(), "CLAUDE_CONFIG_DIR="+claudeDir),
			})
			if err != nil {
				return err
			}
			logger.ChildExited(code)
			if code != 0 {
				return fmt.Errorf("agent exited with status %d", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name (defaults to the profile name)")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory for the agent (defaults to current)")

	return cmd
}

// resolveProfile picks the launch profile: explicit argument, configured
// default, the only profile, or an interactive selection over all of them.
// With no profiles configured, the agent launches with bare defaults.
func resolveProfile(cfg *config.Config, args []string, pick func([]string) (string, error)) (string, *config.Profile, error) {
	if len(args) == 1 {
		p, ok := cfg.Profiles[args[0]]
		if !ok {
			return "", nil, fmt.Errorf("unknown profile %q", args[0])
		}
		return args[0], p, nil
	}
	if cfg.DefaultProfile != "" {
		return cfg.DefaultProfile, cfg.Profiles[cfg.DefaultProfile], nil
	}
	switch len(cfg.Profiles) {
	case 0:
		return "default", nil, nil
	case 1:
		for name, p := range cfg.Profiles {
			return name, p, nil
		}
	}
	name, err := pick(cfg.ProfileNames())
	if err != nil {
		return "", nil, err
	}
	return name, cfg.Profiles[name], nil
}

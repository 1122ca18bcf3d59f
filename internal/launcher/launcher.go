// Package launcher starts external programs detached from the window
// manager's session.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// Launcher spawns programs fire-and-forget. Children run in their own
// session so they survive a window manager restart, and are reaped in the
// background.
type Launcher struct {
	log *slog.Logger
}

// New returns a Launcher. A nil logger discards output.
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Launcher{log: logger}
}

// Spawn starts argv without waiting for it.
func (l *Launcher) Spawn(argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	l.log.Debug("spawned", "argv", argv, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			l.log.Debug("spawned process exited", "argv", argv, "error", err)
		}
	}()
	return nil
}

// Autostart runs the autostart script through sh. An empty path or a
// missing file is not an error; the script's exit status is ignored.
func (l *Launcher) Autostart(path string) error {
	if path == "" {
		return nil
	}
	path = ExpandHome(path)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			l.log.Debug("no autostart script", "path", path)
			return nil
		}
		return err
	}
	l.log.Info("running autostart", "path", path)
	return l.Spawn([]string{"sh", "-c", path})
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

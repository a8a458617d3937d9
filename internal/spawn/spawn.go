// Package spawn starts click commands without waiting for them.
package spawn

import (
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

var ErrEmptyCommand = errors.New("empty command")

// Runner starts commands split on whitespace. Children are reaped in the
// background.
type Runner struct {
	// Env is appended to the environment of every command.
	Env []string
}

func (r Runner) Run(command string) error {
	cmd, err := r.Command(command)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Warn("Command failed", "package", "spawn", "command", command, "error", err)
		}
	}()

	return nil
}

// Command builds the process for command without starting it.
func (r Runner) Command(command string) (*exec.Cmd, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	return cmd, nil
}

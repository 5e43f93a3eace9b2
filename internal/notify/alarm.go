package notify

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

const (
	bell         = "\a"
	alarmTimeout = 10 * time.Second
)

// Alarm plays the configured sound command, or rings the terminal bell when
// no command is configured.
type Alarm struct {
	command string
	out     io.Writer
	run     func(ctx context.Context, command string) error
}

func NewAlarm(command string, out io.Writer) *Alarm {
	return &Alarm{
		command: strings.TrimSpace(command),
		out:     out,
		run: func(ctx context.Context, command string) error {
			return exec.CommandContext(ctx, "sh", "-c", command).Run()
		},
	}
}

func (a *Alarm) Play(ctx context.Context) error {
	if a.command == "" {
		if a.out == nil {
			return nil
		}
		_, err := io.WriteString(a.out, bell)
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, alarmTimeout)
	defer cancel()
	if err := a.run(ctx, a.command); err != nil {
		return fmt.Errorf("alarm command: %w", err)
	}
	return nil
}

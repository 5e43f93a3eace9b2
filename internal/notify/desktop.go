package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrUnsupported is returned when no notification backend exists for the platform.
var ErrUnsupported = errors.New("notify: no desktop notification backend")

const sendTimeout = 5 * time.Second

// Desktop delivers notifications through the platform's notification tool.
type Desktop struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Send shows n. OnClick is not observable through these tools; the caller
// surfaces its own acknowledgement.
func (d *Desktop) Send(ctx context.Context, n Notification) error {
	name, args, err := d.command(n)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := d.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (d *Desktop) command(n Notification) (string, []string, error) {
	switch d.goos {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(n.Body), appleQuote(n.Title))
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := d.lookPath("notify-send"); err != nil {
			return "", nil, ErrUnsupported
		}
		args := []string{"--app-name=agenda"}
		if n.Icon != "" {
			args = append(args, "--icon="+n.Icon)
		}
		if n.Tag != "" {
			args = append(args, "--hint=string:x-canonical-private-synchronous:"+n.Tag)
		}
		args = append(args, n.Title, n.Body)
		return "notify-send", args, nil
	}
	return "", nil, ErrUnsupported
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

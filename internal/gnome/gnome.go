// Package gnome talks to GNOME Shell through gsettings.
package gnome

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

const (
	backgroundSchema = "org.gnome.desktop.background"
	userThemeSchema  = "org.gnome.shell.extensions.user-theme"
	shellExecutable  = "gnome-shell"
)

// ErrShellNotRunning is returned by Activate when no gnome-shell process exists.
var ErrShellNotRunning = errors.New("gnome-shell is not running")

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ProcessLister returns the running processes.
type ProcessLister func() ([]ps.Process, error)

// Client reads the wallpaper setting and switches the shell theme.
type Client struct {
	runner    Runner
	processes ProcessLister
	logger    hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithProcessLister replaces the process lister.
func WithProcessLister(p ProcessLister) Option {
	return func(c *Client) { c.processes = p }
}

// New creates a Client that shells out to gsettings.
func New(logger hclog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Client{
		runner:    execRunner{},
		processes: ps.Processes,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wallpaper returns the configured desktop background for mode as a path
// or URL the image loader accepts. Dark mode prefers picture-uri-dark and
// falls back to picture-uri.
func (c *Client) Wallpaper(ctx context.Context, mode colour.Mode) (string, error) {
	keys := []string{"picture-uri"}
	if mode == colour.ModeDark {
		keys = []string{"picture-uri-dark", "picture-uri"}
	}

	var lastErr error
	for _, key := range keys {
		out, err := c.runner.Run(ctx, "gsettings", "get", backgroundSchema, key)
		if err != nil {
			lastErr = fmt.Errorf("gsettings get %s %s: %w (output: %s)", backgroundSchema, key, err, strings.TrimSpace(string(out)))
			c.logger.Debug("wallpaper key unavailable", "key", key, "error", err)
			continue
		}
		if uri := unquote(string(out)); uri != "" {
			c.logger.Debug("wallpaper discovered", "key", key, "uri", uri)
			return WallpaperPath(uri), nil
		}
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no desktop background configured")
}

// Activate switches the user theme to neutral and then to target so the
// shell reloads even when target is already selected. Failures of the
// individual gsettings calls are logged, not returned. ErrShellNotRunning
// is returned, and nothing is run, when gnome-shell is absent.
func (c *Client) Activate(ctx context.Context, neutral, target string) error {
	running, err := c.ShellRunning()
	if err != nil {
		c.logger.Warn("could not list processes, activating anyway", "error", err)
	} else if !running {
		return ErrShellNotRunning
	}

	for _, name := range []string{neutral, target} {
		out, err := c.runner.Run(ctx, "gsettings", "set", userThemeSchema, "name", name)
		if err != nil {
			c.logger.Warn("gsettings set failed", "theme", name, "error", err, "output", strings.TrimSpace(string(out)))
			continue
		}
		c.logger.Debug("user theme set", "theme", name)
	}
	return nil
}

// ShellRunning reports whether a gnome-shell process exists.
func (c *Client) ShellRunning() (bool, error) {
	processes, err := c.processes()
	if err != nil {
		return false, fmt.Errorf("failed to get process list: %w", err)
	}
	for _, p := range processes {
		if p.Executable() == shellExecutable {
			return true, nil
		}
	}
	return false, nil
}

// WallpaperPath converts a gsettings picture URI into a path or URL usable
// by the image loader. file:// URIs are decoded; other values are returned as is.
func WallpaperPath(uri string) string {
	uri = unquote(uri)
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}

// unquote strips whitespace and the single quotes gsettings prints around strings.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	return s
}

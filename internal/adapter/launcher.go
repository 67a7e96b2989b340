package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens picture URLs in an external image viewer
type Launcher struct {
	command string   // configured viewer command, empty for auto-detection
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	// start runs a command without waiting for it; replaced in tests
	start    func(name string, args ...string) error
	lookPath func(file string) (string, error)
}

// launchPath defines a single way to launch a viewer
type launchPath struct {
	path string   // Command path: "imv", "feh", or "open-a:AppName"
	args []string // Viewer flags placed before the URL
}

// candidateViewers defines the preferred viewer order for each platform.
// Viewers that cannot fetch URLs themselves are left out.
var candidateViewers = map[string][]launchPath{
	"darwin": {
		{path: "open-a:Preview"},
	},
	"linux": {
		{path: "imv"},
		{path: "feh", args: []string{"--scale-down", "--auto-zoom"}},
		{path: "eog"},
	},
	"windows": {},
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launch opens url in the configured viewer, a detected viewer, or the system default
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return fmt.Errorf("no picture to open")
	}

	// Tier 1: User configured a specific viewer
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching configured viewer", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	// Tier 2: Try the platform's candidate chain
	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected viewer", "viewer", name)
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	return l.launchDefault(url)
}

// detectAndLaunch tries candidate viewers in order
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidateViewers[runtime.GOOS]
	if !ok {
		candidates = candidateViewers["linux"]
	}

	for _, lp := range candidates {
		if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
			if err := l.start("open", "-a", app, url); err == nil {
				return app, nil
			}
			continue
		}

		if _, err := l.lookPath(lp.path); err != nil {
			l.logger.Debug("viewer not available", "viewer", lp.path, "error", err)
			continue
		}
		args := append(append([]string{}, lp.args...), url)
		if err := l.start(lp.path, args...); err != nil {
			l.logger.Debug("viewer failed to start", "viewer", lp.path, "error", err)
			continue
		}
		return lp.path, nil
	}

	return "", fmt.Errorf("no candidate viewers found")
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)

	switch runtime.GOOS {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("cmd", "/c", "start", "", url)
	default:
		return l.start("xdg-open", url)
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/codalotl/segdiff/internal/config"
)

const defaultWidth = 120

func (a *app) loader() config.Loader {
	return config.Loader{Home: a.opts.Home, WorkDir: a.opts.WorkDir, Getenv: a.opts.Getenv}
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := a.loader().Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// terminalFd returns the descriptor of stdout if it is a terminal.
func (a *app) terminalFd() (int, bool) {
	f, ok := a.out.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// useColor resolves a color mode of "auto", "always", or "never". Auto means stdout is a terminal and NO_COLOR is unset.
func (a *app) useColor(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if a.opts.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		_, tty := a.terminalFd()
		return tty, nil
	default:
		return false, fmt.Errorf("invalid --color %q (want auto, always, or never)", mode)
	}
}

// width returns the flag value if set, else the terminal width, else defaultWidth.
func (a *app) width(flag int) int {
	if flag > 0 {
		return flag
	}
	if fd, ok := a.terminalFd(); ok {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func (a *app) copyToClipboard(text string) error {
	if a.opts.CopyToClipboard != nil {
		return a.opts.CopyToClipboard(text)
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	return clipboard.WriteAll(text)
}

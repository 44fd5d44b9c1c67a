package cli

import (
	"context"
	"io"

	"github.com/nikbrunner/bmdash/internal/browser"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	UserID   string `long:"user-id" description:"Session identifier, remembered for later runs"`
	BaseURL  string `long:"base-url" description:"Backend base URL (overrides config)"`
	Config   string `long:"config" description:"Path to config file"`
	StateDir string `long:"state-dir" description:"Directory for session state and logs (default ~/.config/bmdash)"`
	Store    string `long:"store" description:"Session store backend" choice:"auto" choice:"sqlite" choice:"json" default:"auto"`
	LogLevel string `long:"log-level" description:"Log level: debug | info | warn | error (overrides config)"`
	Version  bool   `long:"version" description:"Show version and exit"`
}

// env is what every command shares: output streams, the process context
// and the URL opener.
type env struct {
	ctx     context.Context
	out     io.Writer
	errOut  io.Writer
	open    browser.Opener
	version string
}

// ListCommand prints the projected bookmark rows.
type ListCommand struct {
	Sort   string `long:"sort" description:"Sort mode: latest | oldest | alpha | reverse_alpha (default from config)"`
	Search string `long:"search" description:"Only rows whose id or content contains this term"`
	JSON   bool   `long:"json" description:"Output in JSON format"`

	globals *GlobalFlags
	env     *env
}

// SearchCommand picks a bookmark by fuzzy query and opens it on the source site.
type SearchCommand struct {
	Args struct {
		Query []string `positional-arg-name:"query" required:"1"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	env     *env
}

// ExportCommand writes the projected rows as a Netscape bookmark file.
type ExportCommand struct {
	Sort   string `long:"sort" description:"Sort mode: latest | oldest | alpha | reverse_alpha (default from config)"`
	Search string `long:"search" description:"Only export rows matching this term"`

	Args struct {
		Path string `positional-arg-name:"path"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	env     *env
}

// LogoutCommand ends the session on the backend and forgets it locally.
type LogoutCommand struct {
	globals *GlobalFlags
	env     *env
}

// VersionCommand prints the version.
type VersionCommand struct {
	env *env
}

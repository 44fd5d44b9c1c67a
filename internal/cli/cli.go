// Package cli wires the bmdash command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"github.com/nikbrunner/bmdash/internal/browser"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	List    *ListCommand
	Search  *SearchCommand
	Export  *ExportCommand
	Logout  *LogoutCommand
	Version *VersionCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
// Without a subcommand the dashboard runs.
func buildParser(e *env) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "bmdash"
	parser.LongDescription = "Terminal dashboard for your saved social-media bookmarks."
	parser.SubcommandsOptional = true

	cmds := &commands{
		List:    &ListCommand{globals: &globals, env: e},
		Search:  &SearchCommand{globals: &globals, env: e},
		Export:  &ExportCommand{globals: &globals, env: e},
		Logout:  &LogoutCommand{globals: &globals, env: e},
		Version: &VersionCommand{env: e},
	}

	parser.AddCommand("list", "Print bookmarks", "Fetch bookmarks and print them filtered and sorted.", cmds.List)
	parser.AddCommand("search", "Pick a bookmark and open it", "Fuzzy search bookmarks, pick one and open it on the source site.", cmds.Search)
	parser.AddCommand("export", "Export bookmarks to HTML", "Export bookmarks as a Netscape bookmark file.", cmds.Export)
	parser.AddCommand("logout", "End the session", "Log out on the backend and forget the stored session.", cmds.Logout)
	parser.AddCommand("version", "Show version", "Show version.", cmds.Version)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(ctx context.Context, version string) error {
	return RunWithArgs(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
}

// RunWithArgs parses args and executes the matched subcommand, or the
// dashboard when none is given.
func RunWithArgs(ctx context.Context, version string, args []string, out, errOut io.Writer) error {
	e := &env{ctx: ctx, out: out, errOut: errOut, open: browser.Open, version: version}
	return run(e, args)
}

func run(e *env, args []string) error {
	parser, globals, _ := buildParser(e)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Fprintln(e.out, flagsErr.Message)
			return nil
		}
		return err
	}

	// A subcommand already ran inside ParseArgs.
	if parser.Active != nil {
		return nil
	}

	if globals.Version {
		fmt.Fprintf(e.out, "bmdash %s\n", e.version)
		return nil
	}

	return runDashboard(e, globals)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sketchcad/internal/config"
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/mcp"
	"github.com/hpungsan/sketchcad/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known top-level subcommands and flags.
var cliCommands = map[string]bool{
	"shell": true, "run": true, "mcp": true,
	"help": true, "--verbose": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _        _       _                 _
   ___| | _____| |_ ___| |__   ___ __ _  __| |
  / __| |/ / _ \ __/ __| '_ \ / __/ _' |/ _' |
  \__ \   <  __/ || (__| | | | (_| (_| | (_| |
  |___/_|\_\___|\__\___|_| |_|\___\__,_|\__,_|

  2D sketches and 3D primitives

  Usage: sketchcad shell            interactive command loop
         sketchcad run <script>     execute a command script ("-" for stdin)
         sketchcad --help

  MCP server mode requires piped input.`)
}

// newLogger returns a text logger on w; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig merges ~/.sketchcad/config.json with the nearest repo config.
func loadConfig() (*config.Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}
	return config.LoadWithRepo(filepath.Join(homeDir, config.DirName), cwd)
}

// newCLIApp builds the top-level application. The session is created in
// Before so that --verbose is known when the logger is installed.
func newCLIApp(cfg *config.Config) *cli.App {
	var session *ops.Session
	current := func() *ops.Session { return session }

	app := &cli.App{
		Name:    "sketchcad",
		Usage:   "2D sketch and 3D primitive modeling",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log debug events to stderr"},
		},
		Before: func(c *cli.Context) error {
			logger := newLogger(c.App.ErrWriter, c.Bool("verbose"))
			if cfg != nil {
				if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
					logger.Warn("unknown tools in disabled_tools", "tools", unknown)
				}
				if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
					logger.Warn("unknown types in disabled_types", "types", unknown)
				}
			}
			session = ops.NewSession(cfg, logger)
			return nil
		},
		Commands: []*cli.Command{
			shellCmd(current),
			runCmd(current),
			mcpCmd(current),
		},
		// Piped input without a subcommand serves MCP.
		Action: func(c *cli.Context) error {
			return mcp.Run(session, Version)
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// shellCmd creates the interactive shell command.
func shellCmd(session func() *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Read commands from stdin, one per line",
		Action: func(c *cli.Context) error {
			prompt := ""
			if c.App.Reader == os.Stdin && isTerminal() {
				prompt = "sketchcad> "
			}
			app := newCommandApp(session(), c.App.Writer, c.App.ErrWriter)
			return runLines(app, c.App.Reader, "stdin", prompt, false)
		},
	}
}

// runCmd creates the script runner command.
func runCmd(session func() *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute a command script, stopping at the first error",
		ArgsUsage: "<script> (\"-\" reads stdin)",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(usage(c))
			}
			path := c.Args().First()
			app := newCommandApp(session(), c.App.Writer, c.App.ErrWriter)

			if path == "-" {
				return cliError(runLines(app, c.App.Reader, "stdin", "", true))
			}
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return outputError(errors.NewFileNotFound(path))
				}
				return outputError(errors.NewIO("open", path, err))
			}
			defer f.Close()
			return cliError(runLines(app, f, path, "", true))
		},
	}
}

// mcpCmd creates the MCP server command.
func mcpCmd(session func() *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve every operation as an MCP tool over stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(session(), Version)
		},
	}
}

// cliError turns a script failure into an exit error without re-tagging it.
func cliError(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), 1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before loading config
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	args := os.Args
	if !isCLIMode() {
		// Unknown argument + terminal → show error (don't start MCP server)
		if len(os.Args) >= 2 && isTerminal() {
			fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
			fmt.Fprintf(os.Stderr, "Run 'sketchcad --help' for usage.\n")
			os.Exit(1)
		}
		// MCP server mode (default)
		args = []string{os.Args[0], "mcp"}
	}

	app := newCLIApp(cfg)
	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

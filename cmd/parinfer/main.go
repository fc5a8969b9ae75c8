// Package main is the entry point for the parinfer command.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/parinfer"
	"github.com/dshills/parinfer/internal/config"
	"github.com/dshills/parinfer/internal/tui"
	"github.com/dshills/parinfer/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ConfigPath   string
	Mode         string
	CommentChars string
	ForceBalance bool
	CursorLine   int
	CursorX      int
	Write        bool
	Watch        bool
	Live         bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, args := parseFlags()

	cfg, err := config.Load(opts.ConfigPath, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.CommentChars != "" {
		cfg.CommentChars = nil
		for _, r := range opts.CommentChars {
			cfg.CommentChars = append(cfg.CommentChars, string(r))
		}
	}
	if opts.ForceBalance {
		cfg.ForceBalance = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case opts.Live:
		return runLive(cfg, args)
	case opts.Watch:
		return runWatch(cfg, args)
	default:
		return runOnce(cfg, opts, args)
	}
}

// transform applies the configured mode.
func transform(cfg config.Config, text string, passOpts *parinfer.Options) parinfer.Result {
	if passOpts == nil {
		passOpts = &parinfer.Options{}
	}
	passOpts.CommentChars = cfg.CommentRunes()
	passOpts.ForceBalance = cfg.ForceBalance
	passOpts.PartialResult = cfg.PartialResult

	switch cfg.Mode {
	case "indent":
		return parinfer.IndentMode(text, passOpts)
	case "paren":
		return parinfer.ParenMode(text, passOpts)
	default:
		return parinfer.SmartMode(text, passOpts)
	}
}

// runOnce transforms stdin or the named files.
func runOnce(cfg config.Config, opts options, args []string) int {
	passOpts := &parinfer.Options{
		CursorLine: opts.CursorLine,
		CursorX:    opts.CursorX,
	}

	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading stdin: %v\n", err)
			return 1
		}
		res := transform(cfg, string(data), passOpts)
		if !res.Success {
			reportError("<stdin>", res.Error)
			return 1
		}
		fmt.Print(res.Text)
		return 0
	}

	exit := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit = 1
			continue
		}
		res := transform(cfg, string(data), passOpts)
		if !res.Success {
			reportError(path, res.Error)
			exit = 1
			continue
		}
		if opts.Write {
			if res.Text != string(data) {
				if err := os.WriteFile(path, []byte(res.Text), 0o644); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					exit = 1
				}
			}
		} else {
			fmt.Print(res.Text)
		}
	}
	return exit
}

// runWatch rewrites matching files as they change until interrupted.
func runWatch(cfg config.Config, args []string) int {
	if len(args) == 0 {
		args = []string{"."}
	}

	w, err := watcher.New(
		watcher.WithExtensions(cfg.Watch.Extensions),
		watcher.WithDebounce(cfg.WatchDebounce()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating watcher: %v\n", err)
		return 1
	}

	for _, path := range args {
		if err := w.Watch(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", path, err)
			return 1
		}
	}

	// the daemon always runs Paren Mode: on unattended rewrites the
	// existing close-parens govern, never the indentation
	runner := watcher.NewRunner(w, func(text string) (string, bool, error) {
		res := parinfer.ParenMode(text, &parinfer.Options{
			CommentChars: cfg.CommentRunes(),
			ForceBalance: cfg.ForceBalance,
		})
		if !res.Success {
			return "", false, res.Error
		}
		return res.Text, res.Text != text, nil
	})
	runner.Log = func(format string, a ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}

	// run until SIGINT/SIGTERM
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		w.Close()
	}()

	runner.Run()
	return 0
}

// runLive opens the tcell preview on one file.
func runLive(cfg config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -live takes exactly one file")
		return 1
	}

	screen, err := tui.New(args[0],
		tui.WithTabWidth(cfg.TUI.TabWidth),
		tui.WithCommentChars(cfg.CommentRunes()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := screen.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func reportError(path string, e *parinfer.Error) {
	fmt.Fprintf(os.Stderr, "Error: %s:%d:%d: %s\n", path, e.LineNo, e.X, e.Message)
}

func parseFlags() (options, []string) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Mode, "mode", "", "Transformation mode (indent, paren, smart)")
	flag.StringVar(&opts.Mode, "m", "", "Transformation mode (shorthand)")
	flag.StringVar(&opts.CommentChars, "comment-chars", "", "Comment characters, one per rune (default \";\")")
	flag.BoolVar(&opts.ForceBalance, "force-balance", false, "Enable aggressive paren balancing")
	flag.IntVar(&opts.CursorLine, "cursor-line", 0, "1-based cursor line")
	flag.IntVar(&opts.CursorX, "cursor-x", 0, "1-based cursor column")
	flag.BoolVar(&opts.Write, "write", false, "Rewrite files in place")
	flag.BoolVar(&opts.Write, "w", false, "Rewrite files in place (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Watch files and rewrite on change")
	flag.BoolVar(&opts.Live, "live", false, "Open the live preview screen")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "parinfer - structural editing for Lisp source\n\n")
		fmt.Fprintf(os.Stderr, "Usage: parinfer [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  parinfer < core.clj           Transform stdin\n")
		fmt.Fprintf(os.Stderr, "  parinfer -w src/core.clj      Rewrite a file in place\n")
		fmt.Fprintf(os.Stderr, "  parinfer -watch src           Rewrite files as they change\n")
		fmt.Fprintf(os.Stderr, "  parinfer -live scratch.clj    Edit with live preview\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("parinfer %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts, flag.Args()
}

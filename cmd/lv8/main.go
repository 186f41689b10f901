package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"lv8/internal/evaluator"
	"lv8/internal/log"
	"lv8/internal/repl"
	"lv8/internal/util"
	"os"
	"path/filepath"
)

const (
	DefaultRootPath = "."
)

var (
	// Version, BuildDate and Commit are set with -ldflags at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

type options struct {
	help         bool
	version      bool
	configFile   string
	logLevel     string
	logFile      string
	sharedFrames bool
	debugAST     bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("lv8", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }

	fs.BoolVar(&opts.help, "help", false, "Display help information and exit")
	fs.BoolVar(&opts.help, "h", false, "Display help information and exit")
	fs.BoolVar(&opts.version, "version", false, "Display version information and exit")
	fs.BoolVar(&opts.version, "v", false, "Display version information and exit")
	// config file
	fs.StringVar(&opts.configFile, "config", util.DefaultConfigFile, "TOML configuration file")
	// evaluator config
	fs.BoolVar(&opts.sharedFrames, "shared-frames", false, "Reuse one frame for every call of a function")
	// parser config
	fs.BoolVar(&opts.debugAST, "debug-ast", false, "Render the AST of each loaded file as a JSON file")
	// log config
	fs.StringVar(&opts.logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	return fs
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.version {
		printVersion(stdout)
		return 0
	}
	if opts.help {
		printHelp(stdout)
		return 0
	}

	config, err := buildConfiguration(fs, &opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	closeLog, err := log.Setup(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "%v; falling back to stderr\n", err)
	}
	defer closeLog()

	slog.Debug("starting lv8",
		slog.String("version", Version),
		slog.String("config", config.ConfigFile),
		slog.Bool("sharedFrames", config.SharedFunctionFrames),
	)

	interp := evaluator.New(config, stdin, stdout)
	defer func() {
		if err := interp.Close(); err != nil {
			slog.Warn("failed to release handles", slog.Any("error", err))
		}
	}()

	if fs.NArg() == 0 {
		repl.Start(interp, stdout, stderr)
		return 0
	}

	return runFile(interp, fs.Arg(0), stderr)
}

// runFile executes one script. Only a file that cannot be read or parsed
// changes the exit status, runtime errors are reported and exit cleanly.
func runFile(interp *evaluator.Interpreter, path string, stderr io.Writer) int {
	program, src, err := interp.Load(path)
	if err != nil {
		fmt.Fprintln(stderr, repl.FormatError(err))
		return 1
	}

	if _, err := interp.Execute(program, src, filepath.Dir(path)); err != nil {
		fmt.Fprintln(stderr, repl.FormatError(err))
	}
	return 0
}

// buildConfiguration layers defaults, then the TOML file, then any flag the
// user actually set on the command line.
func buildConfiguration(fs *flag.FlagSet, opts *options) (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	config.RootPath = DefaultRootPath

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	if err := util.LoadConfig(&config, opts.configFile, explicit); err != nil {
		return config, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = opts.logLevel
		case "log-file":
			config.LogFile = opts.logFile
		case "shared-frames":
			config.SharedFunctionFrames = opts.sharedFrames
		case "debug-ast":
			config.DebugJsonAST = opts.debugAST
		}
	})

	return config, nil
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "lv8 version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp(out io.Writer) {
	fmt.Fprintf(out, `Usage: lv8 [options] [filename]

Options:
  -config <path>     TOML configuration file. Default is './lv8.toml' when present.
  -shared-frames     Reuse one frame for every call of a function.
  -debug-ast         Render the AST of each loaded file as a JSON file.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
Without a filename lv8 starts an interactive session. Type 'exit' to leave.

Examples:
  lv8                          Start the REPL
  lv8 -log-level=debug app.lv8 Execute app.lv8 with debug logging enabled

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	pkgerrors "github.com/pkg/errors"

	"github.com/mcncl/datapacker/internal/builder"
	"github.com/mcncl/datapacker/internal/config"
	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/formatter"
	"github.com/mcncl/datapacker/internal/parser"
	"github.com/mcncl/datapacker/internal/transformer"
	"github.com/mcncl/datapacker/internal/writer"
)

// CLI defines the command-line interface
var CLI struct {
	Source  string `help:"Path to the source YAML document (default: datapack.yaml)." short:"s"`
	Output  string `help:"Directory the tree is written into (default: current directory)." short:"o"`
	Config  string `help:"Path to a config file. If not specified, .datapacker.yml is searched upwards." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	DryRun  bool   `help:"Build the tree and log it without writing anything." short:"n"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	FS     vfs.FileSystem
	Logger *log.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cliParser := kong.Must(&CLI,
		kong.Name("datapacker"),
		kong.Description("Expand a YAML datapack description into a tree of JSON files"),
		kong.UsageOnError(),
	)

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("datapacker version %s\n", Version)
		return
	}

	logger := newLogger(os.Stderr)
	fs := osfs.New()

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile(fs)
	}
	cfg, err := config.LoadConfigWithCLI(fs, configPath, CLI.Source, CLI.Output, CLI.Debug, CLI.DryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError(err.Error(), errors.ErrInvalidConfig)))
		os.Exit(1)
	}
	if cfg.Dev.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	err = run(&Context{Config: cfg, FS: fs, Logger: logger})
	if err != nil {
		if trace, ok := stackTrace(err); ok {
			logger.Debug("run failed", "trace", trace)
		}
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "datapacker",
		Level:  log.InfoLevel,
	})
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	logger := ctx.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// 1. Locate the source; without one there is nothing to do
	if _, err := ctx.FS.Stat(cfg.Source); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			logger.Debug("no source document, nothing to do", "source", cfg.Source)
			return nil
		}
		return errors.NewInputError(fmt.Sprintf("failed to access source '%s'", cfg.Source), err)
	}

	// 2. Parse the source document
	source, err := parser.ParseFile(ctx.FS, cfg.Source)
	if err != nil {
		return err
	}

	// 3. Build the directory tree
	b := builder.NewBuilderWith(
		transformer.NewTransformer(),
		formatter.NewFormatterWithConfig(cfg),
		logger,
	)
	tree, err := b.Build(source)
	if err != nil {
		return err
	}
	folders, files := tree.Count()
	logger.Debug("built tree", "folders", folders, "files", files)

	if cfg.Dev.DryRun {
		logger.Info("dry run, nothing written", "folders", folders, "files", files)
		logger.Debug("tree", "dump", spew.Sdump(tree))
		return nil
	}

	// 4. Write the tree
	if err := writer.NewWriter(ctx.FS, logger).Write(tree, cfg.Output); err != nil {
		return err
	}
	logger.Debug("wrote tree", "output", cfg.Output, "files", files)
	return nil
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stackTrace formats the first stack trace recorded in err's chain.
func stackTrace(err error) (string, bool) {
	var st stackTracer
	if !stderrors.As(err, &st) {
		return "", false
	}
	return fmt.Sprintf("%+v", st), true
}

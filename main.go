package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/videoreport/cmd"
	"github.com/lepinkainen/videoreport/config"
	"github.com/lepinkainen/videoreport/logging"
	"github.com/lepinkainen/videoreport/types"
	"github.com/lepinkainen/videoreport/ui"
)

var Version = "dev"

type CLI struct {
	Config   string           `help:"YAML config file with default settings" type:"path" placeholder:"FILE"`
	LogLevel string           `name:"log-level" help:"Diagnostic log level" enum:"debug,info,warn,error,disabled" default:"${log_level}"`
	Version  kong.VersionFlag `help:"Print version and exit"`

	Report cmd.ReportCmd `cmd:"" default:"withargs" help:"Report videos matching the given criteria"`
	Stats  cmd.StatsCmd  `cmd:"" help:"Show library-wide statistics"`
}

// cliVars exposes config defaults to the struct tags
func cliVars(cfg *config.Config) kong.Vars {
	return kong.Vars{
		"library":   cfg.Library,
		"limit":     strconv.Itoa(cfg.Report.Limit),
		"format":    cfg.Report.Format,
		"sort":      cfg.Report.Sort,
		"log_level": cfg.Log.Level,
		"version":   Version,
	}
}

func newParser(cli *CLI, cfg *config.Config, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("videoreport"),
		kong.Description("Report on the videos stored in an Apple Photos library."),
		kong.UsageOnError(),
		kong.Vars(cliVars(cfg)),
		kong.Bind(&types.AppContext{Version: Version, Config: cfg}),
	}, options...)
	return kong.New(cli, options...)
}

// configPathFromArgs finds --config before flag parsing, since the config file
// supplies the flag defaults
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if value, ok := strings.CutPrefix(arg, "--config="); ok {
			return value
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	cfg, err := config.Load(configPathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Failed to load config: %v", err)))
		os.Exit(1)
	}

	var cli CLI
	parser, err := newParser(&cli, cfg)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logging.Init(logging.Config{
		Level:  cli.LogLevel,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	logging.Debug().Str("version", Version).Str("command", ctx.Command()).Msg("Starting")

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package cli implements the scantree command line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/willabides/kongplete"

	"github.com/scantree-io/scantree"
	"github.com/scantree-io/scantree/enrich"
	"github.com/scantree-io/scantree/env"
	"github.com/scantree-io/scantree/printer"
	"github.com/scantree-io/scantree/scan"
)

const (
	defaultLogLevel = "warn"
	defaultLogFmt   = "console"
)

type cliSpec struct {
	Version     struct{} `cmd:"" help:"Scantree version"`
	VersionFlag bool     `name:"version" help:"Scantree version"`
	Chdir       string   `short:"C" optional:"true" help:"Sets working directory"`
	LogLevel    string   `optional:"true" default:"warn" enum:"trace,debug,info,warn,error,fatal" help:"Log level to use: 'trace', 'debug', 'info', 'warn', 'error', or 'fatal'"`
	LogFmt      string   `optional:"true" default:"console" enum:"console,text,json" help:"Log format to use: 'console', 'text', or 'json'"`

	Enrich struct {
		Config     string `optional:"true" help:"Path to the configuration file (defaults to scantree.toml in the working directory)"`
		Server     string `optional:"true" help:"Base URL of the scan service"`
		Properties string `optional:"true" help:"Path to a build properties file"`
		Publish    bool   `optional:"true" default:"false" help:"Publish the enriched record to the scan service"`
		Quiet      bool   `optional:"true" default:"false" help:"Do not print the enriched record"`
	} `cmd:"" help:"Enrich a build scan record with environment metadata"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// Exec will execute scantree with the provided flags defined on args.
// Only flags should be on the args slice.
//
// Results will be written on stdout, according to the command flags and
// errors/warnings written on stderr. Exec will abort the process with a
// status code different than zero in the case of fatal errors.
func Exec(
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) {
	configureLogging(defaultLogLevel, defaultLogFmt, stderr)
	c := newCLI(args, stdin, stdout, stderr)
	c.run()
}

type cli struct {
	ctx        *kong.Context
	parsedArgs *cliSpec
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	exit       bool
}

func newCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) *cli {
	if len(args) == 0 {
		// WHY: avoid default kong error, print help
		args = []string{"--help"}
	}

	logger := log.With().
		Str("action", "newCLI()").
		Logger()

	kongExit := false
	kongExitStatus := 0

	parsedArgs := cliSpec{}
	parser, err := kong.New(&parsedArgs,
		kong.Name("scantree"),
		kong.Description("A tool for enriching build scan records"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Exit(func(status int) {
			// Avoid kong aborting entire process since we designed CLI as lib
			kongExit = true
			kongExitStatus = status
		}),
		kong.Writers(stdout, stderr),
	)

	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("failed to create cli parser")
	}

	kongplete.Complete(parser,
		kongplete.WithPredictor("cli", complete.PredictAnything),
	)

	ctx, err := parser.Parse(args)

	if kongExit && kongExitStatus == 0 {
		return &cli{exit: true}
	}

	// When we run scantree --version the kong parser just fails
	// since no subcommand was provided, so we check the version flag
	// before checking the error.
	if parsedArgs.VersionFlag {
		fmt.Fprintln(stdout, scantree.Version())
		return &cli{exit: true}
	}

	if err != nil {
		logger.Fatal().
			Err(err).
			Msgf("failed to parse cli args: %v", args)
	}

	configureLogging(parsedArgs.LogLevel, parsedArgs.LogFmt, stderr)

	switch ctx.Command() {
	case "version":
		fmt.Fprintln(stdout, scantree.Version())
		return &cli{exit: true}
	case "install-completions":
		err := parsedArgs.InstallCompletions.Run(ctx)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("installing shell completions")
		}
		return &cli{exit: true}
	}

	if parsedArgs.Chdir != "" {
		err = os.Chdir(parsedArgs.Chdir)
		if err != nil {
			logger.Fatal().
				Str("dir", parsedArgs.Chdir).
				Err(err).
				Msg("changing working directory failed")
		}
	}

	return &cli{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		parsedArgs: &parsedArgs,
		ctx:        ctx,
	}
}

func (c *cli) run() {
	if c.exit {
		// WHY: parser called exit but with no error (like help)
		return
	}

	logger := log.With().
		Str("action", "run()").
		Str("cmd", c.ctx.Command()).
		Logger()

	switch c.ctx.Command() {
	case "enrich":
		c.enrich()
	default:
		logger.Fatal().Msg("unexpected command")
	}
}

func (c *cli) enrich() {
	args := c.parsedArgs.Enrich

	cfg, err := LoadConfig(args.Config)
	if err != nil {
		printer.Stderr.ErrorWithDetailsln("invalid configuration", err)
		os.Exit(1)
	}

	server := args.Server
	if server == "" {
		server = cfg.Server
	}
	propsPath := args.Properties
	if propsPath == "" {
		propsPath = cfg.Properties
	}

	var props env.Properties
	if propsPath != "" {
		props, err = env.LoadProperties(propsPath)
		if err != nil {
			printer.Stderr.ErrorWithDetailsln("loading build properties", err)
			os.Exit(1)
		}
	}

	var opts []scan.Option
	if server != "" {
		opts = append(opts, scan.WithServerAddress(server))
	}
	rec := scan.NewRecord(opts...)

	e := enrich.New(rec, enrich.Config{
		Properties: props,
		Switches:   cfg.Switches,
	})
	e.Apply()
	if err := e.Wait(); err != nil {
		log.Warn().Err(err).Msg("waiting for version control metadata")
	}
	rec.Finish()

	if !args.Quiet {
		buf, err := json.MarshalIndent(rec.Snapshot(), "", "  ")
		if err != nil {
			printer.Stderr.ErrorWithDetailsln("encoding build scan record", err)
			os.Exit(1)
		}
		fmt.Fprintln(c.stdout, string(buf))
	}

	if args.Publish {
		rec.Publish(scan.PublishParams{})
		if err := rec.WaitForPublish(); err != nil {
			printer.Stderr.ErrorWithDetailsln("publishing build scan", err)
			os.Exit(1)
		}
		printer.Stderr.Successln("build scan published")
	}
}

func configureLogging(logLevel string, logFmt string, output io.Writer) {
	zloglevel, err := zerolog.ParseLevel(logLevel)

	if err != nil {
		zloglevel = zerolog.FatalLevel
	}

	zerolog.SetGlobalLevel(zloglevel)

	if logFmt == "json" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(output)
	} else if logFmt == "text" { // no color
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: time.RFC3339})
	} else { // default: console mode using color
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: output, NoColor: false, TimeFormat: time.RFC3339})
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"flightparse/internal/artifact"
	"flightparse/internal/bootstrap"
	"flightparse/internal/config"
	"flightparse/internal/host"
	"flightparse/internal/version"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	exitOK         = 0
	exitValidation = 1
	exitUsage      = 2
	exitParse      = 3
	exitLaunch     = 4
)

// exportName is the name the parse pipeline is published under
const exportName = "parse"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run builds the CLI app and executes it against args (including the
// program name). It returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	app := createCliApp(stdout, stderr, &code)

	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if code == exitOK {
			code = exitUsage
		}
	}
	return code
}

func createCliApp(stdout, stderr io.Writer, code *int) *cli.App {
	var logLevel string

	return &cli.App{
		Name:      "flightparse",
		Usage:     "Render, parse and validate the built-in configuration",
		Version:   version.Default().Version,
		Writer:    stdout,
		ErrWriter: stderr,
		// exit codes are decided by run, never by the framework
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level: trace, debug, info, warn, error",
				EnvVars:     []string{bootstrap.EnvLogLevel},
				Destination: &logLevel,
			},
		},
		Commands: []*cli.Command{
			createParseCommand(stdout, stderr, code, &logLevel),
			createRenderCommand(stdout),
			createVersionCommand(stdout),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
	}
}

// createParseCommand creates the 'parse' command
func createParseCommand(stdout, stderr io.Writer, code *int, logLevel *string) *cli.Command {
	var (
		jsonOutput   bool
		canonical    bool
		artifactFile string
	)

	return &cli.Command{
		Name:  "parse",
		Usage: "Run launch, render, parse and validate, then print the debug value",
		Description: `Exit codes:
  0  validated
  1  a field did not match its expected value
  3  the rendered document could not be parsed
  4  launch failed`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result artifact as JSON instead of the bare value",
				Destination: &jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "canonical",
				Usage:       "Emit the artifact as compact JSON with sorted keys",
				Destination: &canonical,
			},
			&cli.StringFlag{
				Name:        "artifact-file",
				Usage:       "Also write the result artifact to `PATH`",
				Destination: &artifactFile,
			},
		},
		Action: func(c *cli.Context) error {
			boot := bootstrap.New(bootstrap.Config{Level: *logLevel, Output: stderr})
			builder := config.NewBuilder(version.Default(),
				config.WithLauncher(boot),
				config.WithLogSource(func() zerolog.Logger { return boot.Logger("config") }),
			)

			registry := host.NewRegistry()
			if err := registry.Export(exportName, builder); err != nil {
				return err
			}

			resp := registry.Call(exportName)
			result := artifact.FromResponse(builder.Constants(), builder.Render(), resp)

			if artifactFile != "" {
				if err := result.WriteToFile(artifactFile, canonical); err != nil {
					return fmt.Errorf("cannot write artifact: %w", err)
				}
			}

			if jsonOutput {
				out, err := result.Encode(canonical)
				if err != nil {
					return fmt.Errorf("cannot format artifact: %w", err)
				}
				fmt.Fprintln(stdout, string(out))
			} else if result.Succeeded() {
				fmt.Fprintln(stdout, result.Value)
			}

			if !result.Succeeded() {
				*code = exitCodeFor(resp.Kind)
				return resp.Err
			}
			return nil
		},
	}
}

// createRenderCommand creates the 'render' command
func createRenderCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print the configuration document built from the version constants",
		Action: func(c *cli.Context) error {
			fmt.Fprint(stdout, config.NewBuilder(version.Default()).Render())
			return nil
		},
	}
}

// createVersionCommand creates the 'version' command
func createVersionCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the build version and checksum",
		Action: func(c *cli.Context) error {
			consts := version.Default()
			sum, err := version.ParseChecksum(consts.Checksum)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "version:   %s\n", consts.Version)
			fmt.Fprintf(stdout, "checksum:  %s\n", sum)
			fmt.Fprintf(stdout, "algorithm: %s\n", sum.Algorithm)
			fmt.Fprintf(stdout, "digest:    %s\n", sum.Digest)
			return nil
		},
	}
}

func exitCodeFor(kind host.ErrorKind) int {
	switch kind {
	case host.KindValidation:
		return exitValidation
	case host.KindParse:
		return exitParse
	case host.KindLaunch:
		return exitLaunch
	default:
		return exitUsage
	}
}

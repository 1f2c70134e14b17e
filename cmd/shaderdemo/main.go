package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/shaderlab"
	"github.com/urfave/cli"
)

func main() {
	if err := start(os.Stdout, os.Args, runDemo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// start echoes every argument verbatim, flags included, then runs the demo.
// Only the program name reaches cli, so nothing is parsed as a flag or
// subcommand.
func start(out io.Writer, args []string, demo func() error) error {
	if len(args) == 0 {
		args = []string{"shaderdemo"}
	}
	shaderlab.EchoArgs(out, args)
	return newCLI(out, demo).Run(args[:1])
}

func newCLI(out io.Writer, demo func() error) *cli.App {
	app := cli.NewApp()
	app.Name = "shaderdemo"
	app.Usage = "render three GLSL lighting shaders under orbiting point lights"
	app.Version = "0.1.0"
	app.ArgsUsage = "[args...]"
	app.HideHelp = true
	app.HideVersion = true
	app.Writer = out
	app.Action = func(*cli.Context) error {
		if err := demo(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
	return app
}

func runDemo() error {
	demo, err := shaderlab.NewDemoApp()
	if err != nil {
		return err
	}
	return demo.Run()
}

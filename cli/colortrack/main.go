// Package main is the colortrack command itself.
package main

import (
	"os"

	"go.viam.com/colortrack/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		cli.Errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

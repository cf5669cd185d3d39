package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/five82/kiosk/internal/cli"
)

var version = "0.1.0"

func main() {
	root := cli.NewRootCmd(version)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

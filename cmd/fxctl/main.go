package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/SscSPs/multicurrency_tracker/internal/cli"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cli.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cli.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// Command sdlc translates Structure Definition Language source into
// per-language declaration files: spec.md §1/§6.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&translateCmd{}, "")

	flag.Parse()
	defer glog.Flush()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// Package subcmd wraps a flag.FlagSet with a friendlier usage printer.
package subcmd

import (
	"flag"
	"fmt"
	"os"
)

func New(name, doc string) *Command {
	cmd := &Command{
		FlagSet: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	cmd.FlagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n"+doc+"\n\n")
		fmt.Fprintf(os.Stderr, "  %s [flags]\n\n", name)
		fmt.Fprintf(os.Stderr, "flags:\n")
		cmd.FlagSet.PrintDefaults()
	}
	return cmd
}

type Command struct {
	*flag.FlagSet
}

// Package sigctx provides a context canceled by SIGINT or SIGTERM.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context canceled on the first interrupt or termination
// signal. A second signal exits the process immediately.
func New() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
		<-ch
		os.Exit(1)
	}()

	return ctx
}

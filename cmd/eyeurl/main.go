// cmd/eyeurl/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yunxiaoshu/eyeurl/internal/cli"
)

func main() {
	// First interrupt cancels the run context so in-flight captures wind
	// down and the report still gets written; a second one kills the
	// process the default way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	cli.Execute(ctx)
}

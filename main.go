package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnsaigle/ghprofile/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cmd.Execute(ctx)
	if err != nil && !cmd.Reported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	cancel()
	os.Exit(cmd.ExitCode(err))
}

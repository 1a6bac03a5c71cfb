package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if code, ok := exitCode(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "wallshuffle: %v\n", err)
		return 1
	}
	return 0
}

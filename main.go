// Copyright (c) 2023 BVK Chaitanya

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bvk/pnlhistory/subcmds"
	"github.com/visvasity/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmds := []cli.Command{
		new(subcmds.History),
		new(subcmds.Trades),
	}
	err := cli.Run(ctx, cmds, os.Args[1:])
	stop()

	if err != nil {
		// Diagnostics were printed by the command already.
		var exit *subcmds.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		log.Fatal(err)
	}
}

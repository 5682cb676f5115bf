package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/tserase/tserase/internal/exitcode"
	"github.com/tserase/tserase/internal/logger"
)

const tseraseVersion = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		// Transform errors were already printed by the log
		if !errors.Is(err, errTransformFailed) {
			logger.PrintErrorToStderr(os.Args, err.Error())
		}
		exitcode.Exit(err)
	}
}

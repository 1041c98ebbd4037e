package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantumauth-io/quantum-go-utils/log"

	ledgerclient "github.com/quantumauth-io/ledger-client/internal/ledger-client"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := ledgerclient.Run(ctx, ledgerclient.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	})
	if err != nil {
		log.Error("ledger-client stopped", "error", err)
		stop()
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

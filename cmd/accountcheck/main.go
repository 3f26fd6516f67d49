package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NethermindEth/accountcheck/node"
	"github.com/NethermindEth/accountcheck/utils"
	_ "go.uber.org/automaxprocs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newServer := func(cfg *node.Config, log utils.SimpleLogger) (Server, error) {
		return node.New(cfg, log)
	}
	if err := NewCmd(newServer).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/cli"
)

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Printf("[-] %v", err)
		os.Exit(1)
	}
}

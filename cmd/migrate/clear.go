package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func runClear(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.records.Clear(ctx, a.address); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	fmt.Printf("cleared recorded issuances and cached signature for %s\n", a.address)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"
	rootCmd  = &cobra.Command{
		Use:   "viabilidad",
		Short: "Mortgage affordability studies and client pipeline for Spanish property sales",
		Long: `viabilidad computes what a household can afford to borrow, estimates the
regional transfer tax (ITP) a purchase carries, compares candidate properties
and tracks clients through the sales pipeline.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to scenario configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(computeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(clientsCmd())
	rootCmd.AddCommand(regionsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("viabilidad %s\n", version)
		},
	}
}

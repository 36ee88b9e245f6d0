// boxstack-cli packs part lists into a container from the command line.
//
// Build:
//
//	go build -o boxstack-cli ./cmd/boxstack-cli
//
// Example:
//
//	boxstack-cli pack --container 120x150x80 --parts parts.csv --pdf layout.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxstack-cli",
		Short: "Stack rectangular parts into a 3D container",
		Long: `BoxStack places boxes into a container with a deterministic first-fit
scan (or a genetic search over part orderings). Parts that do not fit
are reported and parked above the container instead of failing the run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newPackCommand(), newCompareCommand(), newEstimateCommand())
	return cmd
}

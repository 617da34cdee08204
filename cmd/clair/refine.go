package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodiack/clair/internal/refine"
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Promote pending items to their terminal status",
	Long: `Run the status pipeline: fetch pending items from every
destination table (oldest first), fill table defaults that the capture
stage left unset, stamp a refinement timestamp, and move each item to
its table's terminal status.

By default one cycle runs and the command exits. With --watch the
pipeline runs on a fixed interval until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		interval, _ := cmd.Flags().GetDuration("interval")

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		ctx := context.Background()

		if !watch {
			result := p.refiner.RunOnce(ctx)
			printRefineResult(result)
			return
		}

		runner := refine.NewRunner(p.refiner, interval)
		runner.Start(ctx)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		runner.Stop()
	},
}

func printRefineResult(result *refine.Result) {
	if result.Errors > 0 {
		fmt.Printf("refined %d item(s), %s\n", result.Refined, color.RedString("%d error(s)", result.Errors))
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Refined %d item(s)\n", green("✓"), result.Refined)
}

func init() {
	refineCmd.Flags().Bool("watch", false, "Keep running on a fixed interval")
	refineCmd.Flags().Duration("interval", refine.DefaultInterval, "Cycle interval for --watch")
	rootCmd.AddCommand(refineCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodiack/clair/internal/router"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Assign unphased items to roadmap phases",
	Long: `Scan items with no phase reference and link each to the
best-matching roadmap phase. Phases are looked up on the item's parent
project when one exists, otherwise on the item's own project.`,
}

var phasesTodosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Assign unphased todos to phases",
	Run: func(cmd *cobra.Command, args []string) {
		runPhaseRoute(cmd, "todos", func(ctx context.Context, p *pipeline, opts router.Options) (*router.PhaseRouteResult, error) {
			return p.router.RouteTodosToPhases(ctx, opts)
		})
	},
}

var phasesBugsCmd = &cobra.Command{
	Use:   "bugs",
	Short: "Assign unphased bugs to phases",
	Run: func(cmd *cobra.Command, args []string) {
		runPhaseRoute(cmd, "bugs", func(ctx context.Context, p *pipeline, opts router.Options) (*router.PhaseRouteResult, error) {
			return p.router.RouteBugsToPhases(ctx, opts)
		})
	},
}

var phasesAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Assign unphased todos and bugs to phases",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		result, err := p.router.RouteAllToPhases(context.Background(), router.Options{Limit: limit})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("todos: assigned %d of %d\n", result.Todos.Assigned, result.Todos.Total)
		if result.Bugs.Skipped {
			fmt.Printf("bugs:  %s\n", color.YellowString("skipped (phase column not available)"))
		} else {
			fmt.Printf("bugs:  assigned %d of %d\n", result.Bugs.Assigned, result.Bugs.Total)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("\n%s Assigned %d item(s) to phases\n", green("✓"), result.TotalAssigned)
	},
}

func runPhaseRoute(cmd *cobra.Command, label string, fn func(context.Context, *pipeline, router.Options) (*router.PhaseRouteResult, error)) {
	limit, _ := cmd.Flags().GetInt("limit")

	p, err := initPipeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	result, err := fn(context.Background(), p, router.Options{Limit: limit})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result.Skipped {
		fmt.Printf("%s: %s\n", label, color.YellowString("skipped (phase column not available)"))
		return
	}
	fmt.Printf("%s: assigned %d of %d\n", label, result.Assigned, result.Total)
}

func init() {
	for _, cmd := range []*cobra.Command{phasesTodosCmd, phasesBugsCmd, phasesAllCmd} {
		cmd.Flags().Int("limit", 0, "Maximum unphased items to scan (0 = default)")
	}
	phasesCmd.AddCommand(phasesTodosCmd)
	phasesCmd.AddCommand(phasesBugsCmd)
	phasesCmd.AddCommand(phasesAllCmd)
	rootCmd.AddCommand(phasesCmd)
}
